package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token123","token_type":"bearer","expires_in":3600}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestTokenIsCached(t *testing.T) {
	var calls atomic.Int32
	server := tokenServer(t, &calls)

	client := NewClientCred(Conf{ClientID: "id", ClientSecret: "secret", AuthURL: server.URL})

	token, err := client.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token123", token)

	token, err = client.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token123", token)
	assert.Equal(t, int32(1), calls.Load(), "token should be cached")
}

func TestForceRefresh(t *testing.T) {
	var calls atomic.Int32
	server := tokenServer(t, &calls)

	var client Refresher = NewClientCred(Conf{ClientID: "id", AuthURL: server.URL})
	_, err := client.(TokenSource).Token(context.Background())
	require.NoError(t, err)
	_, err = client.ForceRefresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenEndpointFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewClientCred(Conf{ClientID: "id", AuthURL: server.URL}).Token(context.Background())
	assert.ErrorContains(t, err, "failed to get token")
}

func TestStaticToken(t *testing.T) {
	tok, err := StaticToken("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = StaticToken("").Token(context.Background())
	assert.Error(t, err)
}

func TestConfEnabled(t *testing.T) {
	assert.False(t, Conf{}.Enabled())
	assert.True(t, Conf{ClientID: "id", AuthURL: "http://x"}.Enabled())
}

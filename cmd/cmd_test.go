package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/trafficpredict/core/catalog"
	"github.com/kilianp07/trafficpredict/core/model"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		predictOpts.url, predictOpts.chart, predictOpts.remote = "", "", false
		routesOpts.live, routesOpts.stats, routesOpts.fastest = false, false, false
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestPredictCommandJSON(t *testing.T) {
	out, _, err := execute(t, "predict", "--route", "route-3", "--hour", "8", "--day", "weekday", "--format", "json")
	require.NoError(t, err)

	var resp model.PredictionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "route-3", resp.RouteID)
	assert.Equal(t, model.CongestionHigh, resp.CongestionLevel)
	assert.Len(t, resp.OptimalDepartureSlots, 7)
}

func TestPredictCommandCSVAndChart(t *testing.T) {
	chart := filepath.Join(t.TempDir(), "slots.html")
	out, _, err := execute(t, "predict", "--route", "route-1", "--hour", "17", "--day", "weekend", "--format", "csv", "--chart", chart)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "rank,route_id"))

	html, err := os.ReadFile(chart)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Departure slots")
}

func TestPredictCommandRemoteFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	out, errOut, err := execute(t, "predict", "--route", "route-2", "--hour", "9", "--day", "weekday", "--format", "json", "--remote", "--url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, errOut, "computed locally")

	var resp model.PredictionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "route-2", resp.RouteID)
}

func TestPredictCommandRejectsFormat(t *testing.T) {
	_, _, err := execute(t, "predict", "--route", "route-2", "--format", "xml")
	assert.Error(t, err)
}

func TestRoutesCommand(t *testing.T) {
	out, _, err := execute(t, "routes", "--format", "csv")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 6)

	out, _, err = execute(t, "routes", "--stats", "--format", "json")
	require.NoError(t, err)
	var stats catalog.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 5, stats.ActiveRoutes)
	assert.Equal(t, "route-3", stats.FastestRouteID)
}

func TestRoutesCommandLive(t *testing.T) {
	out, _, err := execute(t, "routes", "--live", "--hour", "3", "--day", "weekend", "--format", "json")
	require.NoError(t, err)
	var routes []model.Route
	require.NoError(t, json.Unmarshal([]byte(out), &routes))
	require.Len(t, routes, 5)
	for _, r := range routes {
		assert.True(t, r.CongestionLevel.Valid(), r.ID)
		assert.Greater(t, r.CurrentTravelTime, 0, r.ID)
	}
	assert.Equal(t, "Downtown Express", routes[0].Name)
}

func TestRoutesCommandFastest(t *testing.T) {
	out, _, err := execute(t, "routes", "--fastest", "--format", "json")
	require.NoError(t, err)
	var routes []model.Route
	require.NoError(t, json.Unmarshal([]byte(out), &routes))
	require.Len(t, routes, 5)
	assert.Equal(t, "route-3", routes[0].ID)
	assert.Equal(t, "route-2", routes[4].ID)
}

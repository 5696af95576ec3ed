package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/trafficpredict/core/catalog"
	"github.com/kilianp07/trafficpredict/core/model"
	"github.com/kilianp07/trafficpredict/core/prediction"
)

func router() http.Handler {
	c := catalog.Default()
	engine := prediction.NewCongestionPredictor(prediction.WithSource(prediction.NeutralSource()))
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/api/routes", NewListHandler(c, engine))
	r.Method(http.MethodGet, "/api/routes/stats", NewStatsHandler(c, engine))
	r.Method(http.MethodGet, "/api/routes/{id}", NewGetHandler(c))
	return r
}

func get(t *testing.T, url string, out any) int {
	t.Helper()
	rr := httptest.NewRecorder()
	router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, url, nil))
	if out != nil {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
	}
	return rr.Code
}

func TestListRoutes(t *testing.T) {
	var out []model.Route
	require.Equal(t, http.StatusOK, get(t, "/api/routes", &out))
	require.Len(t, out, 5)
	assert.Equal(t, "Downtown Express", out[0].Name)
	assert.Equal(t, 28, out[0].PredictedTravelTime)
}

func TestListRoutesLive(t *testing.T) {
	var out []model.Route
	require.Equal(t, http.StatusOK, get(t, "/api/routes?live=true&hour=8&day_type=weekday", &out))
	require.Len(t, out, 5)
	assert.Equal(t, 60, out[2].CurrentTravelTime)
	assert.Equal(t, 54, out[2].PredictedTravelTime)
}

func TestListRoutesFastest(t *testing.T) {
	var out []model.Route
	require.Equal(t, http.StatusOK, get(t, "/api/routes?sort=fastest", &out))
	ids := make([]string, len(out))
	for i, r := range out {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"route-3", "route-1", "route-4", "route-5", "route-2"}, ids)
}

func TestRouteStats(t *testing.T) {
	var out catalog.Stats
	require.Equal(t, http.StatusOK, get(t, "/api/routes/stats", &out))
	assert.Equal(t, 5, out.ActiveRoutes)
	assert.Equal(t, 36, out.AvgPredictedTime)
	assert.Equal(t, 2, out.HighCongestion)
	assert.Equal(t, 87, out.AvgConfidence)
}

func TestGetRoute(t *testing.T) {
	var out model.Route
	require.Equal(t, http.StatusOK, get(t, "/api/routes/route-4", &out))
	assert.Equal(t, "Airport Connector", out.Name)

	var missing model.ErrorResponse
	assert.Equal(t, http.StatusNotFound, get(t, "/api/routes/route-9", &missing))
	assert.Equal(t, "route route-9 not found", missing.Error)
}

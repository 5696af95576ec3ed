package scenarios

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/trafficpredict/api"
	"github.com/kilianp07/trafficpredict/core/model"
	"github.com/kilianp07/trafficpredict/core/prediction"
	"github.com/kilianp07/trafficpredict/infra/logger"
	"github.com/kilianp07/trafficpredict/infra/metrics"
	"github.com/kilianp07/trafficpredict/internal/eventbus"
)

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	bus := eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	done := metrics.StartEventCollector(ctx, bus, sink, logger.NopLogger{})
	t.Cleanup(func() {
		cancel()
		<-done
		bus.Close()
	})

	engine := prediction.NewCongestionPredictor(prediction.WithSource(sc.Source()))
	srv := httptest.NewServer(api.NewRouter(api.Deps{Engine: engine, Bus: bus}))
	defer srv.Close()

	for i, r := range sc.Requests {
		method := r.Method
		if method == "" {
			method = http.MethodPost
		}
		path := r.Path
		if path == "" {
			path = api.PredictPath
		}
		req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(r.Body))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		checkResponse(t, i, method, resp.StatusCode, body, r.Expect)
	}

	if sc.Expected.Served > 0 {
		assert.Eventually(t, func() bool {
			return served(t, reg) == sc.Expected.Served
		}, time.Second, 5*time.Millisecond, "served predictions")
	}
}

func checkResponse(t *testing.T, i int, method string, status int, body []byte, exp Expect) {
	t.Helper()
	if exp.Status != 0 {
		assert.Equal(t, exp.Status, status, "request %d status", i)
	}
	if exp.EmptyBody {
		assert.Empty(t, body, "request %d body", i)
		return
	}
	if exp.Error != "" {
		var e model.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &e), "request %d", i)
		assert.Equal(t, exp.Error, e.Error, "request %d error", i)
		return
	}
	if status != http.StatusOK || method != http.MethodPost || len(body) == 0 {
		return
	}
	var resp model.PredictionResponse
	require.NoError(t, json.Unmarshal(body, &resp), "request %d", i)
	if exp.CongestionLevel != "" {
		assert.Equal(t, exp.CongestionLevel, resp.CongestionLevel.String(), "request %d level", i)
	}
	if exp.CurrentTravelTime != 0 {
		assert.Equal(t, exp.CurrentTravelTime, resp.CurrentTravelTime, "request %d current", i)
	}
	if exp.PredictedTravelTime != 0 {
		assert.Equal(t, exp.PredictedTravelTime, resp.PredictedTravelTime, "request %d predicted", i)
	}
	if exp.Confidence != 0 {
		assert.Equal(t, exp.Confidence, resp.Confidence, "request %d confidence", i)
	}
	if exp.Slots != 0 {
		assert.Len(t, resp.OptimalDepartureSlots, exp.Slots, "request %d slots", i)
	}
}

// served sums traffic_predictions_total over every label set.
func served(t *testing.T, reg *prometheus.Registry) int {
	families, err := reg.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != "traffic_predictions_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return int(total)
}

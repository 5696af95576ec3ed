// Package predict serves the congestion prediction endpoint.
package predict

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/trafficpredict/api/httputil"
	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
	"github.com/kilianp07/trafficpredict/core/model"
	"github.com/kilianp07/trafficpredict/core/monitoring"
	"github.com/kilianp07/trafficpredict/core/prediction"
	"github.com/kilianp07/trafficpredict/infra/logger"
	"github.com/kilianp07/trafficpredict/internal/eventbus"
)

// maxBodyBytes bounds the accepted request body.
const maxBodyBytes = 1 << 16

// Options configures the handler. Engine is required.
type Options struct {
	Engine  prediction.Engine
	Bus     eventbus.EventBus
	Logger  logger.Logger
	Monitor monitoring.Monitor
}

type handler struct {
	engine  prediction.Engine
	bus     eventbus.EventBus
	log     logger.Logger
	monitor monitoring.Monitor
}

// NewHandler returns the POST /predict-traffic handler.
//
// A missing route_id is answered with 400. Any other failure, including an
// undecodable body, is answered with 500 and reported to the monitor.
func NewHandler(o Options) http.Handler {
	h := &handler{engine: o.Engine, bus: o.Bus, log: o.Logger, monitor: o.Monitor}
	if h.log == nil {
		h.log = logger.NopLogger{}
	}
	if h.monitor == nil {
		h.monitor = monitoring.NopMonitor{}
	}
	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := httputil.RequestIDFromContext(r.Context())

	var req model.PredictionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.fail(w, reqID, "", fmt.Errorf("invalid request body: %w", err))
		return
	}
	if h.engine == nil {
		h.fail(w, reqID, req.RouteID, errors.New("prediction engine not configured"))
		return
	}

	resp, err := h.engine.Forecast(req)
	if err != nil {
		if prediction.IsValidation(err) {
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.fail(w, reqID, req.RouteID, err)
		return
	}

	if h.bus != nil {
		ev := coremetrics.NewPredictionEvent(resp, coremetrics.OriginServed, time.Since(start))
		ev.RequestID = reqID
		h.bus.Publish(ev)
	}
	h.log.Debugw("prediction served", map[string]any{
		"request_id":       reqID,
		"route_id":         resp.RouteID,
		"congestion_level": resp.CongestionLevel.String(),
		"confidence":       resp.Confidence,
	})
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *handler) fail(w http.ResponseWriter, reqID, routeID string, err error) {
	h.log.Errorf("prediction request %s failed: %v", reqID, err)
	h.monitor.CaptureException(err, map[string]string{
		"module":     "predict",
		"request_id": reqID,
		"route_id":   routeID,
	})
	httputil.WriteError(w, http.StatusInternalServerError, err.Error())
}

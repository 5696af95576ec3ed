// Package api exposes the prediction service over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kilianp07/trafficpredict/api/httputil"
	"github.com/kilianp07/trafficpredict/api/predict"
	"github.com/kilianp07/trafficpredict/api/routes"
	"github.com/kilianp07/trafficpredict/core/catalog"
	"github.com/kilianp07/trafficpredict/core/monitoring"
	"github.com/kilianp07/trafficpredict/core/prediction"
	"github.com/kilianp07/trafficpredict/infra/logger"
	"github.com/kilianp07/trafficpredict/internal/eventbus"
)

// PredictPath is the prediction endpoint.
const PredictPath = "/predict-traffic"

// Deps are the collaborators of the HTTP surface. Nil Bus, Logger and
// Monitor are replaced with no-op implementations.
type Deps struct {
	Engine  prediction.Engine
	Catalog *catalog.Catalog
	Bus     eventbus.EventBus
	Logger  logger.Logger
	Monitor monitoring.Monitor
}

// NewRouter wires the endpoints and middleware.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = logger.NopLogger{}
	}
	if d.Monitor == nil {
		d.Monitor = monitoring.NopMonitor{}
	}
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(corsMiddleware)
	r.Use(accessMiddleware(d.Logger, d.Bus))
	r.Use(recoverMiddleware(d.Logger, d.Monitor))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Method(http.MethodPost, PredictPath, predict.NewHandler(predict.Options{
		Engine:  d.Engine,
		Bus:     d.Bus,
		Logger:  d.Logger,
		Monitor: d.Monitor,
	}))

	r.Route("/api/routes", func(r chi.Router) {
		r.Method(http.MethodGet, "/", routes.NewListHandler(d.Catalog, d.Engine))
		r.Method(http.MethodGet, "/stats", routes.NewStatsHandler(d.Catalog, d.Engine))
		r.Method(http.MethodGet, "/{id}", routes.NewGetHandler(d.Catalog))
	})
	return r
}

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kilianp07/trafficpredict/api/httputil"
	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
	"github.com/kilianp07/trafficpredict/core/monitoring"
	"github.com/kilianp07/trafficpredict/infra/logger"
	"github.com/kilianp07/trafficpredict/internal/eventbus"
)

// HeaderRequestID carries the request identifier in both directions.
const HeaderRequestID = "X-Request-ID"

const (
	corsAllowOrigin  = "*"
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type"
)

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(httputil.WithRequestID(r.Context(), reqID)))
	})
}

// corsMiddleware sets the CORS headers on every response and answers
// preflight requests with an empty 200.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", corsAllowOrigin)
		w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func recoverMiddleware(log logger.Logger, mon monitoring.Monitor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
					mon.CaptureException(err, map[string]string{
						"module":     "api",
						"path":       r.URL.Path,
						"request_id": httputil.RequestIDFromContext(r.Context()),
					})
					httputil.WriteError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// accessMiddleware logs each request and publishes a RequestEvent labelled
// with the matched route pattern.
func accessMiddleware(log logger.Logger, bus eventbus.EventBus) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			path := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}
			latency := time.Since(start)
			log.Debugw("request", map[string]any{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"latency_ms": latency.Milliseconds(),
				"request_id": httputil.RequestIDFromContext(r.Context()),
			})
			if bus != nil {
				bus.Publish(coremetrics.RequestEvent{
					Method:  r.Method,
					Path:    path,
					Status:  rec.status,
					Latency: latency,
					Time:    start,
				})
			}
		})
	}
}

// Package httputil holds response and context helpers shared by the HTTP handlers.
package httputil

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kilianp07/trafficpredict/core/model"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

// WithRequestID stores the request identifier in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// RequestIDFromContext returns the identifier stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return s
	}
	return ""
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg} with the given status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, model.ErrorResponse{Error: msg})
}

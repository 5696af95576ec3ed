package metrics

import (
	"time"

	"github.com/kilianp07/trafficpredict/core/model"
)

// Origin tells where a prediction was computed.
type Origin string

const (
	// OriginServed is a prediction computed by this service for an HTTP caller.
	OriginServed Origin = "served"
	// OriginRemote is a prediction obtained from a remote endpoint.
	OriginRemote Origin = "remote"
	// OriginLocal is a prediction computed in-process without trying a remote.
	OriginLocal Origin = "local"
	// OriginFallback is a local prediction substituted for a failed remote call.
	OriginFallback Origin = "fallback"
)

// PredictionEvent describes one produced prediction.
type PredictionEvent struct {
	RequestID           string
	RouteID             string
	Level               model.CongestionLevel
	Confidence          float64
	CurrentTravelTime   int
	PredictedTravelTime int
	TimeSaved           int
	Origin              Origin
	Latency             time.Duration
	Time                time.Time
}

// NewPredictionEvent fills an event from a response.
func NewPredictionEvent(resp model.PredictionResponse, origin Origin, latency time.Duration) PredictionEvent {
	return PredictionEvent{
		RouteID:             resp.RouteID,
		Level:               resp.CongestionLevel,
		Confidence:          resp.Confidence,
		CurrentTravelTime:   resp.CurrentTravelTime,
		PredictedTravelTime: resp.PredictedTravelTime,
		TimeSaved:           resp.TimeSaved,
		Origin:              origin,
		Latency:             latency,
		Time:                time.Now(),
	}
}

// MetricsSink records produced predictions.
type MetricsSink interface {
	RecordPrediction(ev PredictionEvent) error
}

// FallbackEvent records a remote call replaced by a local computation.
type FallbackEvent struct {
	RouteID    string
	Reason     string
	StatusCode int // zero for transport errors
	Time       time.Time
}

// FallbackRecorder records upstream fallbacks.
type FallbackRecorder interface {
	RecordFallback(ev FallbackEvent) error
}

// RequestEvent records the outcome of an HTTP request to the service.
type RequestEvent struct {
	Method  string
	Path    string
	Status  int
	Latency time.Duration
	Time    time.Time
}

// RequestRecorder records HTTP outcomes.
type RequestRecorder interface {
	RecordRequest(ev RequestEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordPrediction(PredictionEvent) error { return nil }
func (NopSink) RecordFallback(FallbackEvent) error     { return nil }
func (NopSink) RecordRequest(RequestEvent) error       { return nil }

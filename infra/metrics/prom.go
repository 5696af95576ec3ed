package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
)

// PromSink records prediction events in Prometheus metrics.
type PromSink struct {
	predictions *prometheus.CounterVec
	travelTime  *prometheus.HistogramVec
	timeSaved   prometheus.Histogram
	fallbacks   *prometheus.CounterVec
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// NewPromSink registers prediction metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered under the same name are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "traffic_predictions_total",
			Help: "Total number of produced congestion predictions",
		}, []string{"route_id", "congestion_level", "origin"}),
		travelTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "traffic_travel_time_minutes",
			Help:    "Travel times reported by predictions",
			Buckets: prometheus.LinearBuckets(10, 10, 8),
		}, []string{"kind"}),
		timeSaved: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "traffic_time_saved_minutes",
			Help:    "Difference between current and predicted travel time",
			Buckets: prometheus.LinearBuckets(0, 2, 8),
		}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "traffic_prediction_fallbacks_total",
			Help: "Remote predictions replaced by a local computation",
		}, []string{"reason"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "traffic_http_requests_total",
			Help: "HTTP requests handled by the prediction service",
		}, []string{"method", "path", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "traffic_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
	}
	var err error
	if s.predictions, err = register(reg, s.predictions); err != nil {
		return nil, err
	}
	if s.travelTime, err = register(reg, s.travelTime); err != nil {
		return nil, err
	}
	if s.timeSaved, err = register(reg, s.timeSaved); err != nil {
		return nil, err
	}
	if s.fallbacks, err = register(reg, s.fallbacks); err != nil {
		return nil, err
	}
	if s.requests, err = register(reg, s.requests); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, s.latency); err != nil {
		return nil, err
	}
	return s, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordPrediction counts the prediction and observes its travel times.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.predictions.WithLabelValues(ev.RouteID, ev.Level.String(), string(ev.Origin)).Inc()
	s.travelTime.WithLabelValues("current").Observe(float64(ev.CurrentTravelTime))
	s.travelTime.WithLabelValues("predicted").Observe(float64(ev.PredictedTravelTime))
	s.timeSaved.Observe(float64(ev.TimeSaved))
	return nil
}

// RecordFallback counts an upstream fallback.
func (s *PromSink) RecordFallback(ev coremetrics.FallbackEvent) error {
	s.fallbacks.WithLabelValues(ev.Reason).Inc()
	return nil
}

// RecordRequest counts the request and observes its latency.
func (s *PromSink) RecordRequest(ev coremetrics.RequestEvent) error {
	s.requests.WithLabelValues(ev.Method, ev.Path, strconv.Itoa(ev.Status)).Inc()
	s.latency.WithLabelValues(ev.Path).Observe(ev.Latency.Seconds())
	return nil
}

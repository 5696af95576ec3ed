package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/trafficpredict/core/factory"
	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
	"github.com/kilianp07/trafficpredict/core/monitoring"
	"github.com/kilianp07/trafficpredict/infra/logger"
	"github.com/kilianp07/trafficpredict/infra/mqtt"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterMetricsSink("prometheus", func(map[string]any) (coremetrics.MetricsSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})

	_ = coremetrics.RegisterMetricsSink("mqtt", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		return NewMQTTSink(conf)
	})
}

// NewMQTTSink decodes conf into an mqtt.Config and connects a publisher.
func NewMQTTSink(conf map[string]any, opts ...mqtt.Option) (coremetrics.MetricsSink, error) {
	var c mqtt.Config
	if err := factory.Decode(conf, &c); err != nil {
		return nil, err
	}
	return mqtt.NewPublisher(c, opts...)
}

// SinkOverrides returns factories for the sinks that take the process
// logger and monitor, for use with coremetrics.NewMetricsSinkWith.
func SinkOverrides(log logger.Logger, mon monitoring.Monitor) map[string]factory.Factory[coremetrics.MetricsSink] {
	return map[string]factory.Factory[coremetrics.MetricsSink]{
		"mqtt": func(conf map[string]any) (coremetrics.MetricsSink, error) {
			return NewMQTTSink(conf, mqtt.WithLogger(log), mqtt.WithMonitor(mon))
		},
	}
}

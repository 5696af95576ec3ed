package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/trafficpredict/core/factory"
	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
	"github.com/kilianp07/trafficpredict/core/monitoring"
	"github.com/kilianp07/trafficpredict/infra/logger"
)

func TestFactoryBuildsNopAndPrometheus(t *testing.T) {
	sink, err := coremetrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}})
	require.NoError(t, err)
	assert.IsType(t, coremetrics.NopSink{}, sink)

	sink, err = coremetrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "prometheus"}})
	require.NoError(t, err)
	multi, ok := sink.(*coremetrics.MultiSink)
	require.True(t, ok)
	assert.Len(t, multi.Sinks, 2)
}

func TestFactoryMQTTRequiresBroker(t *testing.T) {
	_, err := coremetrics.NewMetricsSink([]factory.ModuleConfig{{Type: "mqtt", Conf: map[string]any{}}})
	assert.Error(t, err)
}

func TestSinkOverridesThreadMonitorToMQTT(t *testing.T) {
	rec := &monitoring.Recorder{}
	cfgs := []factory.ModuleConfig{{Type: "mqtt", Conf: map[string]any{"broker": "tcp://127.0.0.1:1"}}}
	_, err := coremetrics.NewMetricsSinkWith(cfgs, SinkOverrides(logger.NopLogger{}, rec))
	require.Error(t, err)
	require.Len(t, rec.Tags, 1)
	assert.Equal(t, "mqtt", rec.Tags[0]["module"])
	assert.Equal(t, "tcp://127.0.0.1:1", rec.Tags[0]["broker"])
}

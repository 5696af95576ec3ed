package metrics

import "github.com/kilianp07/trafficpredict/core/factory"

var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink adds a metrics sink factory identified by name.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewMetricsSink creates a MetricsSink from the provided configuration.
func NewMetricsSink(cfgs []factory.ModuleConfig) (MetricsSink, error) {
	return NewMetricsSinkWith(cfgs, nil)
}

// NewMetricsSinkWith is NewMetricsSink where factories in overrides take
// precedence over the registered ones for their type.
func NewMetricsSinkWith(cfgs []factory.ModuleConfig, overrides map[string]factory.Factory[MetricsSink]) (MetricsSink, error) {
	create := func(c factory.ModuleConfig) (MetricsSink, error) {
		if f, ok := overrides[c.Type]; ok && f != nil {
			return f(c.Conf)
		}
		return sinkRegistry.Create(c)
	}
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return create(cfgs[0])
	}
	sinks := make([]MetricsSink, len(cfgs))
	for i, c := range cfgs {
		s, err := create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}

package metrics_test

import (
	"testing"

	"github.com/kilianp07/trafficpredict/core/factory"
	metrics "github.com/kilianp07/trafficpredict/core/metrics"
	_ "github.com/kilianp07/trafficpredict/infra/metrics"
)

/*
TestMetricsFactory_Builtins verifies registration via infra/metrics/factory.go.

	Cases:
	- instantiate builtin nop sink
	- unknown type returns error
*/
func TestMetricsFactory_Builtins(t *testing.T) {
	s, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}})
	if err != nil {
		t.Fatalf("create nop: %v", err)
	}
	if s == nil {
		t.Fatal("expected sink instance")
	}
	if _, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "missing"}}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

/*
TestNewMetricsSink_Multi validates NewMetricsSink behavior with zero, one, and multiple configs.
Cases:
  - no config -> NopSink
  - two configs -> MultiSink with two sub-sinks
*/
func TestNewMetricsSink_Multi(t *testing.T) {
	s, err := metrics.NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("create nop default: %v", err)
	}
	if _, ok := s.(metrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	cfgs := []factory.ModuleConfig{{Type: "nop"}, {Type: "nop"}}
	s, err = metrics.NewMetricsSink(cfgs)
	if err != nil {
		t.Fatalf("create multi: %v", err)
	}
	m, ok := s.(*metrics.MultiSink)
	if !ok {
		t.Fatalf("expected MultiSink, got %T", s)
	}
	if len(m.Sinks) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(m.Sinks))
	}
}

/*
TestNewMetricsSinkWith_Overrides checks that an override replaces the
registered factory for its type only.
*/
func TestNewMetricsSinkWith_Overrides(t *testing.T) {
	var got map[string]any
	overrides := map[string]factory.Factory[metrics.MetricsSink]{
		"nop": func(conf map[string]any) (metrics.MetricsSink, error) {
			got = conf
			return &metrics.MultiSink{}, nil
		},
	}
	s, err := metrics.NewMetricsSinkWith([]factory.ModuleConfig{{Type: "nop", Conf: map[string]any{"k": "v"}}}, overrides)
	if err != nil {
		t.Fatalf("create with override: %v", err)
	}
	if _, ok := s.(*metrics.MultiSink); !ok {
		t.Fatalf("expected override sink, got %T", s)
	}
	if got["k"] != "v" {
		t.Fatalf("override did not receive conf: %v", got)
	}
	if _, err := metrics.NewMetricsSinkWith([]factory.ModuleConfig{{Type: "missing"}}, overrides); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

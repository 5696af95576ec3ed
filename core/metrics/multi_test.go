package metrics

import (
	"errors"
	"testing"
)

type recordSink struct {
	predictions int
	fallbacks   int
	fail        bool
}

func (r *recordSink) RecordPrediction(PredictionEvent) error {
	r.predictions++
	if r.fail {
		return errors.New("sink down")
	}
	return nil
}

func (r *recordSink) RecordFallback(FallbackEvent) error {
	r.fallbacks++
	return nil
}

type predictionsOnly struct{ n int }

func (p *predictionsOnly) RecordPrediction(PredictionEvent) error {
	p.n++
	return nil
}

func TestMultiSinkForwards(t *testing.T) {
	s1 := &recordSink{}
	s2 := &predictionsOnly{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordPrediction(PredictionEvent{RouteID: "route-1"}); err != nil {
		t.Fatalf("record prediction: %v", err)
	}
	if err := m.RecordFallback(FallbackEvent{RouteID: "route-1"}); err != nil {
		t.Fatalf("record fallback: %v", err)
	}
	if err := m.RecordRequest(RequestEvent{Status: 200}); err != nil {
		t.Fatalf("record request: %v", err)
	}
	if s1.predictions != 1 || s2.n != 1 || s1.fallbacks != 1 {
		t.Fatalf("events not forwarded: %+v %+v", s1, s2)
	}
}

func TestMultiSinkContinuesAfterError(t *testing.T) {
	bad := &recordSink{fail: true}
	good := &recordSink{}
	m := NewMultiSink(bad, good)
	if err := m.RecordPrediction(PredictionEvent{}); err == nil {
		t.Fatalf("expected joined error")
	}
	if good.predictions != 1 {
		t.Fatalf("second sink skipped")
	}
}

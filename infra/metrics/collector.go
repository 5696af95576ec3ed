package metrics

import (
	"context"

	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
	"github.com/kilianp07/trafficpredict/infra/logger"
	"github.com/kilianp07/trafficpredict/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and forwards metric events
// to sink off the publisher's goroutine. It stops when the context is
// canceled or the bus is closed; the returned channel is closed on exit.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := record(sink, ev); err != nil {
					log.Warnf("record %T: %v", ev, err)
				}
			}
		}
	}()
	return done
}

func record(sink coremetrics.MetricsSink, ev eventbus.Event) error {
	switch e := ev.(type) {
	case coremetrics.PredictionEvent:
		return sink.RecordPrediction(e)
	case coremetrics.FallbackEvent:
		if r, ok := sink.(coremetrics.FallbackRecorder); ok {
			return r.RecordFallback(e)
		}
	case coremetrics.RequestEvent:
		if r, ok := sink.(coremetrics.RequestRecorder); ok {
			return r.RecordRequest(e)
		}
	}
	return nil
}

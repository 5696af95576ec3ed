package main

import (
	"context"
	"sync"
	"time"

	"github.com/kilianp07/trafficpredict/connectors"
	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
	"github.com/kilianp07/trafficpredict/core/model"
	"github.com/kilianp07/trafficpredict/infra/logger"
)

// Commuter asks for a prediction before each trip.
type Commuter struct {
	ID        string
	Segment   string
	RouteID   string
	Departure int
	Day       model.DayType

	Client   connectors.PredictionClient
	Rounds   int
	Interval time.Duration
	Log      logger.Logger
}

// Tally counts the outcome of a simulation.
type Tally struct {
	mu       sync.Mutex
	Requests int
	Errors   int
	Origins  map[coremetrics.Origin]int
	Levels   map[model.CongestionLevel]int
	Saved    int
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{
		Origins: make(map[coremetrics.Origin]int),
		Levels:  make(map[model.CongestionLevel]int),
	}
}

func (t *Tally) add(resp model.PredictionResponse, origin coremetrics.Origin, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Requests++
	if err != nil {
		t.Errors++
		return
	}
	t.Origins[origin]++
	t.Levels[resp.CongestionLevel]++
	t.Saved += resp.TimeSaved
}

// Run performs Rounds predictions, one per Interval, until ctx is done.
// A commuter that follows the advice shifts its departure to the first
// recommended slot for the next round.
func (c *Commuter) Run(ctx context.Context, tally *Tally) {
	log := c.Log
	if log == nil {
		log = logger.NopLogger{}
	}
	rounds := c.Rounds
	if rounds <= 0 {
		rounds = 1
	}
	hour := c.Departure
	for i := 0; i < rounds; i++ {
		resp, origin, err := c.Client.Predict(ctx, c.RouteID, hour, c.Day)
		tally.add(resp, origin, err)
		if err != nil {
			log.Warnf("%s: predict %s at %02d:00: %v", c.ID, c.RouteID, hour, err)
		} else {
			log.Debugw("prediction", map[string]any{
				"commuter": c.ID,
				"route_id": c.RouteID,
				"hour":     hour,
				"level":    string(resp.CongestionLevel),
				"origin":   string(origin),
			})
			if h, ok := firstSlotHour(resp); ok {
				hour = h
			}
		}
		if i == rounds-1 {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.Interval):
		}
	}
}

func firstSlotHour(resp model.PredictionResponse) (int, bool) {
	if len(resp.OptimalDepartureSlots) == 0 {
		return 0, false
	}
	t, err := time.Parse("15:04", resp.OptimalDepartureSlots[0].Time)
	if err != nil {
		return 0, false
	}
	return t.Hour(), true
}

func runCommuters(ctx context.Context, commuters []Commuter) *Tally {
	tally := NewTally()
	var wg sync.WaitGroup
	for i := range commuters {
		wg.Add(1)
		go func(c *Commuter) {
			defer wg.Done()
			c.Run(ctx, tally)
		}(&commuters[i])
	}
	wg.Wait()
	return tally
}

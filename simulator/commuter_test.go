package main

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/trafficpredict/connectors/clients/predictor"
	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
	"github.com/kilianp07/trafficpredict/core/model"
	"github.com/kilianp07/trafficpredict/core/prediction"
)

type scriptedClient struct {
	mu    sync.Mutex
	hours []int
	err   error
}

func (c *scriptedClient) Predict(_ context.Context, routeID string, hour int, _ model.DayType) (model.PredictionResponse, coremetrics.Origin, error) {
	c.mu.Lock()
	c.hours = append(c.hours, hour)
	c.mu.Unlock()
	if c.err != nil {
		return model.PredictionResponse{}, "", c.err
	}
	return model.PredictionResponse{
		RouteID:         routeID,
		CongestionLevel: model.CongestionLow,
		TimeSaved:       2,
		OptimalDepartureSlots: []model.DepartureSlot{
			{Time: "06:00", CongestionLevel: model.CongestionLow, EstimatedTime: 20},
		},
	}, coremetrics.OriginRemote, nil
}

func TestCommuterFollowsAdvice(t *testing.T) {
	client := &scriptedClient{}
	c := Commuter{ID: "cmt0001", RouteID: "route-1", Departure: 8, Client: client, Rounds: 3}
	tally := NewTally()
	c.Run(context.Background(), tally)

	assert.Equal(t, []int{8, 6, 6}, client.hours)
	assert.Equal(t, 3, tally.Requests)
	assert.Equal(t, 3, tally.Origins[coremetrics.OriginRemote])
	assert.Equal(t, 6, tally.Saved)
}

func TestCommuterCountsErrors(t *testing.T) {
	client := &scriptedClient{err: errors.New("route_id is required")}
	c := Commuter{ID: "cmt0001", Departure: 8, Client: client, Rounds: 2}
	tally := NewTally()
	c.Run(context.Background(), tally)

	assert.Equal(t, []int{8, 8}, client.hours)
	assert.Equal(t, 2, tally.Errors)
	assert.Empty(t, tally.Origins)
}

func TestCommuterStopsOnCancel(t *testing.T) {
	client := &scriptedClient{}
	c := Commuter{ID: "cmt0001", RouteID: "route-1", Departure: 8, Client: client, Rounds: 10, Interval: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, NewTally())
		close(done)
	}()
	require.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return len(client.hours) == 1
	}, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("commuter did not stop")
	}
}

func TestRunCommutersWithLocalClient(t *testing.T) {
	engine := prediction.NewCongestionPredictor(prediction.WithSource(prediction.NeutralSource()))
	client, err := predictor.New(predictor.WithEngine(engine))
	require.NoError(t, err)

	commuters := []Commuter{
		{ID: "cmt0001", RouteID: "route-3", Departure: 8, Day: model.Weekday, Client: client, Rounds: 2},
	}
	tally := runCommuters(context.Background(), commuters)

	assert.Equal(t, 2, tally.Requests)
	assert.Equal(t, 2, tally.Origins[coremetrics.OriginLocal])
	// 08:00 is High; the advice moves the commuter to 06:00 which is Medium.
	assert.Equal(t, 1, tally.Levels[model.CongestionHigh])
	assert.Equal(t, 1, tally.Levels[model.CongestionMedium])
	assert.Equal(t, 11, tally.Saved)

	var buf bytes.Buffer
	printSummary(&buf, tally, time.Second)
	assert.Contains(t, buf.String(), "requests=2 errors=0")
	assert.Contains(t, buf.String(), "origin local: 2")
	assert.Contains(t, buf.String(), "minutes saved: 11")
}

func TestRouteIDs(t *testing.T) {
	assert.Equal(t, []string{"route-1", "route-9"}, routeIDs(" route-1, ,route-9"))
	assert.Len(t, routeIDs(""), 5)
}

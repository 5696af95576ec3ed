package config

import (
	"fmt"

	"github.com/kilianp07/trafficpredict/core/prediction"
)

// PredictorConfig tunes the congestion predictor.
type PredictorConfig struct {
	// Seed makes the random source deterministic when non-zero.
	Seed uint64 `json:"seed"`
	// ReferenceRoute is the route departure slots are scored against.
	ReferenceRoute string `json:"reference_route"`
	// Routes replaces or extends the built-in route profiles.
	Routes map[string]prediction.RouteProfile `json:"routes"`
}

// SetDefaults applies sane defaults.
func (c *PredictorConfig) SetDefaults() {
	if c.ReferenceRoute == "" {
		c.ReferenceRoute = prediction.DefaultReferenceRoute
	}
}

// Validate checks route overrides are within range.
func (c PredictorConfig) Validate() error {
	for id, p := range c.Routes {
		if id == "" {
			return fmt.Errorf("route id is required")
		}
		if p.Weight < 0 || p.Weight > 1 {
			return fmt.Errorf("route %s: weight %.2f outside [0,1]", id, p.Weight)
		}
		if p.BaseTravelTime <= 0 {
			return fmt.Errorf("route %s: base_travel_time must be positive", id)
		}
	}
	return nil
}

// RouteTable returns the built-in table merged with the configured overrides.
func (c PredictorConfig) RouteTable() prediction.RouteTable {
	return prediction.DefaultRouteTable().With(c.Routes)
}

// Source returns the random source implied by Seed.
func (c PredictorConfig) Source() prediction.Source {
	if c.Seed == 0 {
		return prediction.GlobalSource
	}
	return prediction.NewSeededSource(c.Seed)
}

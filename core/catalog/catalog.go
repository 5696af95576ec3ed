// Package catalog holds the demo routes listed by the service and the
// summary statistics shown next to them.
package catalog

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/trafficpredict/core/model"
	"github.com/kilianp07/trafficpredict/core/prediction"
)

var demoRoutes = []model.Route{
	{ID: "route-1", Name: "Downtown Express", Origin: "Central Station", Destination: "Business District", Distance: "12.5 km", CurrentTravelTime: 35, PredictedTravelTime: 28, CongestionLevel: model.CongestionLow, Confidence: 87},
	{ID: "route-2", Name: "Highway 101 North", Origin: "South Terminal", Destination: "Tech Park", Distance: "18.2 km", CurrentTravelTime: 42, PredictedTravelTime: 55, CongestionLevel: model.CongestionHigh, Confidence: 92},
	{ID: "route-3", Name: "Riverside Drive", Origin: "West End", Destination: "University Campus", Distance: "8.7 km", CurrentTravelTime: 22, PredictedTravelTime: 26, CongestionLevel: model.CongestionMedium, Confidence: 78},
	{ID: "route-4", Name: "Airport Connector", Origin: "City Center", Destination: "International Airport", Distance: "25.3 km", CurrentTravelTime: 38, PredictedTravelTime: 32, CongestionLevel: model.CongestionLow, Confidence: 94},
	{ID: "route-5", Name: "Industrial Loop", Origin: "Harbor District", Destination: "Manufacturing Zone", Distance: "15.8 km", CurrentTravelTime: 28, PredictedTravelTime: 40, CongestionLevel: model.CongestionHigh, Confidence: 85},
}

// Catalog is an immutable list of routes.
type Catalog struct {
	routes []model.Route
	index  map[string]int
}

// New builds a catalog from routes. Later duplicates of an id are ignored.
func New(routes []model.Route) *Catalog {
	c := &Catalog{index: make(map[string]int, len(routes))}
	for _, r := range routes {
		if _, dup := c.index[r.ID]; dup {
			continue
		}
		c.index[r.ID] = len(c.routes)
		c.routes = append(c.routes, r)
	}
	return c
}

// Default returns the five demo routes.
func Default() *Catalog { return New(demoRoutes) }

// List returns a copy of the routes in catalog order.
func (c *Catalog) List() []model.Route {
	out := make([]model.Route, len(c.routes))
	copy(out, c.routes)
	return out
}

// Get returns the route with the given id.
func (c *Catalog) Get(id string) (model.Route, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.Route{}, false
	}
	return c.routes[i], true
}

// Len returns the number of routes.
func (c *Catalog) Len() int { return len(c.routes) }

// Live returns the routes with travel figures replaced by a fresh prediction
// from engine at the given hour and day type.
func (c *Catalog) Live(engine prediction.Engine, hour int, day model.DayType) []model.Route {
	out := c.List()
	for i := range out {
		p := engine.Predict(hour, day, out[i].ID)
		out[i].CurrentTravelTime = p.CurrentTravelTime
		out[i].PredictedTravelTime = p.PredictedTravelTime
		out[i].CongestionLevel = p.CongestionLevel
		out[i].Confidence = p.Confidence
	}
	return out
}

// Stats summarises a set of routes.
type Stats struct {
	ActiveRoutes        int                           `json:"activeRoutes"`
	AvgPredictedTime    int                           `json:"avgPredictedTime"`
	StdDevPredictedTime float64                       `json:"stdDevPredictedTime"`
	HighCongestion      int                           `json:"highCongestion"`
	AvgConfidence       int                           `json:"avgConfidence"`
	FastestRouteID      string                        `json:"fastestRouteId,omitempty"`
	LevelCounts         map[model.CongestionLevel]int `json:"levelCounts"`
}

// Stats computes the summary of the catalog routes.
func (c *Catalog) Stats() Stats { return Summarize(c.routes) }

// Summarize computes Stats over routes. Averages are rounded to whole
// numbers; the standard deviation is the sample deviation and is zero for
// fewer than two routes.
func Summarize(routes []model.Route) Stats {
	s := Stats{ActiveRoutes: len(routes), LevelCounts: map[model.CongestionLevel]int{}}
	if len(routes) == 0 {
		return s
	}
	predicted := make([]float64, len(routes))
	confidence := make([]float64, len(routes))
	for i, r := range routes {
		predicted[i] = float64(r.PredictedTravelTime)
		confidence[i] = r.Confidence
		s.LevelCounts[r.CongestionLevel]++
	}
	s.HighCongestion = s.LevelCounts[model.CongestionHigh]
	s.AvgPredictedTime = int(math.Round(stat.Mean(predicted, nil)))
	s.AvgConfidence = int(math.Round(stat.Mean(confidence, nil)))
	if len(routes) > 1 {
		s.StdDevPredictedTime = math.Round(stat.StdDev(predicted, nil)*100) / 100
	}
	s.FastestRouteID = routes[floats.MinIdx(predicted)].ID
	return s
}

// Rank returns a copy of routes ordered by predicted travel time, fastest
// first. Ties keep their input order.
func Rank(routes []model.Route) []model.Route {
	out := make([]model.Route, len(routes))
	copy(out, routes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PredictedTravelTime < out[j].PredictedTravelTime
	})
	return out
}

package prediction

import "sort"

const (
	// DefaultRouteWeight applies to routes missing from the table.
	DefaultRouteWeight = 0.5
	// DefaultBaseTravelTime applies to routes missing from the table, in minutes.
	DefaultBaseTravelTime = 20
	// DefaultReferenceRoute is the route departure slots are scored against.
	DefaultReferenceRoute = "route-1"
)

// RouteProfile holds the static congestion propensity and free-flow travel
// time of a route.
type RouteProfile struct {
	Weight         float64 `json:"weight"`
	BaseTravelTime int     `json:"base_travel_time"`
}

// RouteTable is an immutable lookup of route profiles.
type RouteTable struct {
	profiles map[string]RouteProfile
}

var defaultProfiles = map[string]RouteProfile{
	"route-1": {Weight: 0.7, BaseTravelTime: 25},
	"route-2": {Weight: 0.5, BaseTravelTime: 18},
	"route-3": {Weight: 0.8, BaseTravelTime: 35},
	"route-4": {Weight: 0.4, BaseTravelTime: 22},
}

// NewRouteTable builds a table from a copy of profiles.
func NewRouteTable(profiles map[string]RouteProfile) RouteTable {
	cp := make(map[string]RouteProfile, len(profiles))
	for id, p := range profiles {
		cp[id] = p
	}
	return RouteTable{profiles: cp}
}

// DefaultRouteTable returns the built-in route profiles.
func DefaultRouteTable() RouteTable { return NewRouteTable(defaultProfiles) }

// With returns a new table where overrides replace or extend t's entries.
func (t RouteTable) With(overrides map[string]RouteProfile) RouteTable {
	merged := make(map[string]RouteProfile, len(t.profiles)+len(overrides))
	for id, p := range t.profiles {
		merged[id] = p
	}
	for id, p := range overrides {
		merged[id] = p
	}
	return RouteTable{profiles: merged}
}

// Lookup returns the profile for id and whether it is known.
func (t RouteTable) Lookup(id string) (RouteProfile, bool) {
	p, ok := t.profiles[id]
	return p, ok
}

// Weight returns the route weight or DefaultRouteWeight.
func (t RouteTable) Weight(id string) float64 {
	if p, ok := t.profiles[id]; ok {
		return p.Weight
	}
	return DefaultRouteWeight
}

// BaseTravelTime returns the base travel time in minutes or DefaultBaseTravelTime.
func (t RouteTable) BaseTravelTime(id string) int {
	if p, ok := t.profiles[id]; ok {
		return p.BaseTravelTime
	}
	return DefaultBaseTravelTime
}

// IDs lists the known route identifiers in lexical order.
func (t RouteTable) IDs() []string {
	ids := make([]string, 0, len(t.profiles))
	for id := range t.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

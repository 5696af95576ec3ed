package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/trafficpredict/core/prediction"
)

// Expect lists the assertions made on one response. Zero values are not checked.
type Expect struct {
	Status              int     `yaml:"status"`
	Error               string  `yaml:"error,omitempty"`
	CongestionLevel     string  `yaml:"congestion_level,omitempty"`
	CurrentTravelTime   int     `yaml:"current_travel_time,omitempty"`
	PredictedTravelTime int     `yaml:"predicted_travel_time,omitempty"`
	Confidence          float64 `yaml:"confidence,omitempty"`
	Slots               int     `yaml:"slots,omitempty"`
	EmptyBody           bool    `yaml:"empty_body,omitempty"`
}

// Request is one call to the prediction endpoint.
type Request struct {
	Method string `yaml:"method,omitempty"`
	Path   string `yaml:"path,omitempty"`
	Body   string `yaml:"body"`
	Expect Expect `yaml:"expect"`
}

// Expected holds the totals checked once every request has been sent.
type Expected struct {
	Served int `yaml:"served"`
}

// Scenario drives the HTTP surface with a deterministic random source.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Random      *float64  `yaml:"random,omitempty"`
	Sequence    []float64 `yaml:"sequence,omitempty"`
	Seed        uint64    `yaml:"seed,omitempty"`
	Requests    []Request `yaml:"requests"`
	Expected    Expected  `yaml:"expected"`
}

// Source returns the random source described by the scenario: a fixed
// value, a repeating sequence, or a seeded generator.
func (s Scenario) Source() prediction.Source {
	switch {
	case s.Random != nil:
		return prediction.FixedSource(*s.Random)
	case len(s.Sequence) > 0:
		return prediction.NewSequenceSource(s.Sequence...)
	default:
		return prediction.NewSeededSource(s.Seed)
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/kilianp07/trafficpredict/core/model"
)

var populationRng = rand.New(rand.NewSource(time.Now().UnixNano()))

// peakHours are the departure hours drawn for the "peak" segment.
var peakHours = []int{7, 8, 9, 17, 18, 19}

// PopulationConfig holds parameters for bulk commuter generation.
type PopulationConfig struct {
	Size    int
	PeakPct float64
	Day     model.DayType
	Routes  []string
	// Demand weights each hour of the day for off-peak commuters. A zero
	// profile draws hours uniformly.
	Demand [24]float64
}

// GeneratePopulation creates Size commuters with IDs cmt0001..cmtNNNN.
// Routes are assigned round-robin. Commuters join the "peak" segment
// according to PeakPct, otherwise "offpeak".
func GeneratePopulation(cfg PopulationConfig) []Commuter {
	if cfg.Size <= 0 || len(cfg.Routes) == 0 {
		return nil
	}
	cs := make([]Commuter, cfg.Size)
	for i := 0; i < cfg.Size; i++ {
		seg := "offpeak"
		var hour int
		if cfg.PeakPct > 0 && populationRng.Float64() < cfg.PeakPct {
			seg = "peak"
			hour = peakHours[populationRng.Intn(len(peakHours))]
		} else {
			hour = sampleHour(cfg.Demand, populationRng.Float64())
		}
		cs[i] = Commuter{
			ID:        fmt.Sprintf("cmt%04d", i+1),
			Segment:   seg,
			RouteID:   cfg.Routes[i%len(cfg.Routes)],
			Departure: hour,
			Day:       cfg.Day,
		}
	}
	return cs
}

// sampleHour maps r in [0,1) onto the cumulative demand profile.
func sampleHour(demand [24]float64, r float64) int {
	var total float64
	for _, w := range demand {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return int(r*24) % 24
	}
	target := r * total
	var acc float64
	last := 0
	for h, w := range demand {
		if w <= 0 {
			continue
		}
		acc += w
		last = h
		if target < acc {
			return h
		}
	}
	return last
}

// LoadDemandProfile reads an hourly demand profile from JSON keyed by hour.
// Keys that are not hours in [0,23] are ignored.
func LoadDemandProfile(data []byte) ([24]float64, error) {
	var m map[string]float64
	var prof [24]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return prof, err
	}
	for h, v := range m {
		var hour int
		if _, err := fmt.Sscanf(h, "%d", &hour); err != nil {
			continue
		}
		if hour >= 0 && hour < 24 {
			prof[hour] = v
		}
	}
	return prof, nil
}

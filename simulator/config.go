package main

import "time"

// Config holds parameters for the simulator.
type Config struct {
	ConfigFile   string
	URL          string
	Token        string
	Count        int
	Rounds       int
	Interval     time.Duration
	PeakPct      float64
	Weekend      bool
	DemandFile   string
	Routes       string
	Verbose      bool
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string
}

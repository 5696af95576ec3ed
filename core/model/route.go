package model

// Route describes a monitored route shown in the route catalog.
type Route struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Origin              string          `json:"origin"`
	Destination         string          `json:"destination"`
	Distance            string          `json:"distance"`
	CurrentTravelTime   int             `json:"currentTravelTime"`
	PredictedTravelTime int             `json:"predictedTravelTime"`
	CongestionLevel     CongestionLevel `json:"congestionLevel"`
	Confidence          float64         `json:"confidence"` // 0-100
}

// TimeSaved returns the difference between current and predicted travel time.
func (r Route) TimeSaved() int {
	return r.CurrentTravelTime - r.PredictedTravelTime
}

package model

import "time"

// PredictionInput is the transient input of a single prediction.
type PredictionInput struct {
	RouteID string
	Hour    int
	DayType DayType
}

// PredictionOutput is the result of scoring one route at one hour.
type PredictionOutput struct {
	CongestionLevel     CongestionLevel `json:"congestionLevel"`
	Confidence          float64         `json:"confidence"`
	CurrentTravelTime   int             `json:"currentTravelTime"`   // minutes
	PredictedTravelTime int             `json:"predictedTravelTime"` // minutes
	TimeSaved           int             `json:"timeSaved"`           // current - predicted, may be <= 0
}

// DepartureSlot is a candidate hour-aligned departure time.
type DepartureSlot struct {
	Time            string          `json:"time"` // "HH:00"
	CongestionLevel CongestionLevel `json:"congestionLevel"`
	EstimatedTime   int             `json:"estimatedTime"` // minutes
}

// PredictionRequest is the JSON body accepted by the prediction endpoint.
// Hour and DayType are optional and default to the server clock.
type PredictionRequest struct {
	RouteID string  `json:"route_id"`
	Hour    *int    `json:"hour,omitempty"`
	DayType *string `json:"day_type,omitempty"`
}

// Input resolves the request at now: a missing hour becomes now's hour and a
// missing day type is derived from now's weekday.
func (r PredictionRequest) Input(now time.Time) PredictionInput {
	in := PredictionInput{RouteID: r.RouteID, Hour: now.Hour(), DayType: ClassifyDay(now)}
	if r.Hour != nil {
		in.Hour = *r.Hour
	}
	if r.DayType != nil {
		in.DayType = ParseDayType(*r.DayType)
	}
	return in
}

// PredictionResponse is the JSON body returned by the prediction endpoint.
type PredictionResponse struct {
	RouteID               string          `json:"route_id"`
	CongestionLevel       CongestionLevel `json:"congestionLevel"`
	Confidence            float64         `json:"confidence"`
	PredictedTravelTime   int             `json:"predictedTravelTime"`
	CurrentTravelTime     int             `json:"currentTravelTime"`
	TimeSaved             int             `json:"timeSaved"`
	OptimalDepartureSlots []DepartureSlot `json:"optimalDepartureSlots"`
	Model                 string          `json:"model"`
	Timestamp             string          `json:"timestamp"`
}

// ErrorResponse is the JSON body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

package prediction

import "github.com/kilianp07/trafficpredict/core/model"

// ModelName is reported with every served prediction.
const ModelName = "Random Forest Classifier v1.0"

// Engine defines the operations exposed by a congestion predictor.
type Engine interface {
	// Predict scores routeID at the given hour and day type. Out of range
	// hours are wrapped into [0,23].
	Predict(hour int, day model.DayType, routeID string) model.PredictionOutput

	// OptimalSlots returns the seven departure slots surrounding hour,
	// ordered by estimated travel time.
	OptimalSlots(hour int, day model.DayType) []model.DepartureSlot

	// Forecast validates req, fills defaults from the clock and assembles
	// the full endpoint response.
	Forecast(req model.PredictionRequest) (model.PredictionResponse, error)
}

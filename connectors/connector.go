package connectors

import (
	"context"

	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
	"github.com/kilianp07/trafficpredict/core/model"
)

// ErrIncompatibleOption is returned by options applied to the wrong client.
const ErrIncompatibleOption = "option %s is not compatible with %s client"

// PredictionClient obtains congestion predictions for a route.
type PredictionClient interface {
	// Predict returns the prediction and where it was computed. Upstream
	// failures are absorbed by the implementation when it can fall back.
	Predict(ctx context.Context, routeID string, hour int, day model.DayType) (model.PredictionResponse, coremetrics.Origin, error)
}

// Option configures a PredictionClient.
type Option func(PredictionClient) error

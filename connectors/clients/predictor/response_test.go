package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/trafficpredict/core/model"
)

func TestSlotChartHTML(t *testing.T) {
	resp := model.PredictionResponse{
		RouteID:         "route-1",
		CongestionLevel: model.CongestionHigh,
		OptimalDepartureSlots: []model.DepartureSlot{
			{Time: "06:00", CongestionLevel: model.CongestionMedium, EstimatedTime: 30},
			{Time: "08:00", CongestionLevel: model.CongestionHigh, EstimatedTime: 38},
		},
	}
	html, err := SlotChartHTML(resp)
	require.NoError(t, err)
	assert.Contains(t, html, "Departure slots")
	assert.Contains(t, html, "06:00")
	assert.Contains(t, html, "08:00")
}

func TestSlotChartHTMLEmpty(t *testing.T) {
	_, err := SlotChartHTML(model.PredictionResponse{})
	assert.Error(t, err)
}

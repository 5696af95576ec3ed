package predictor

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/trafficpredict/core/model"
)

var levelColors = map[model.CongestionLevel]string{
	model.CongestionLow:    "#22c55e",
	model.CongestionMedium: "#eab308",
	model.CongestionHigh:   "#ef4444",
}

// SlotChartHTML renders the departure slots of resp as an HTML bar chart,
// in ranking order, colored by congestion level.
func SlotChartHTML(resp model.PredictionResponse) (string, error) {
	if len(resp.OptimalDepartureSlots) == 0 {
		return "", fmt.Errorf("no departure slots to render")
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Departure slots",
			Subtitle: fmt.Sprintf("%s - %s congestion now", resp.RouteID, resp.CongestionLevel),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Departure"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Travel time (min)"}),
	)

	xAxis := make([]string, 0, len(resp.OptimalDepartureSlots))
	data := make([]opts.BarData, 0, len(resp.OptimalDepartureSlots))
	for _, s := range resp.OptimalDepartureSlots {
		xAxis = append(xAxis, s.Time)
		data = append(data, opts.BarData{
			Name:      string(s.CongestionLevel),
			Value:     s.EstimatedTime,
			ItemStyle: &opts.ItemStyle{Color: levelColors[s.CongestionLevel]},
		})
	}
	bar.SetXAxis(xAxis).AddSeries("Estimated time", data)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render chart: %v", err)
	}
	return buf.String(), nil
}

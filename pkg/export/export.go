package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kilianp07/trafficpredict/core/model"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates s as an output format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (json or csv)", s)
	}
}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSlotsCSV writes departure slots to w in ranking order.
func WriteSlotsCSV(w io.Writer, routeID string, slots []model.DepartureSlot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rank", "route_id", "time", "congestion_level", "estimated_time"}); err != nil {
		return err
	}
	for i, s := range slots {
		rec := []string{
			strconv.Itoa(i + 1),
			routeID,
			s.Time,
			s.CongestionLevel.String(),
			strconv.Itoa(s.EstimatedTime),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRoutesCSV writes catalog routes to w.
func WriteRoutesCSV(w io.Writer, routes []model.Route) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "origin", "destination", "distance", "current_travel_time", "predicted_travel_time", "congestion_level", "confidence"}); err != nil {
		return err
	}
	for _, r := range routes {
		rec := []string{
			r.ID,
			r.Name,
			r.Origin,
			r.Destination,
			r.Distance,
			strconv.Itoa(r.CurrentTravelTime),
			strconv.Itoa(r.PredictedTravelTime),
			r.CongestionLevel.String(),
			strconv.FormatFloat(r.Confidence, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePrediction writes resp in the given format. CSV output contains the
// departure slots only.
func WritePrediction(w io.Writer, f Format, resp model.PredictionResponse) error {
	switch f {
	case FormatCSV:
		return WriteSlotsCSV(w, resp.RouteID, resp.OptimalDepartureSlots)
	case FormatJSON, "":
		return WriteJSON(w, resp)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

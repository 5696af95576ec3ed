package prediction

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kilianp07/trafficpredict/core/model"
)

const (
	hourFactor  = 0.5
	dayFactor   = 0.2
	routeFactor = 0.3

	jitterSpan = 0.15

	lowThreshold    = 0.4
	mediumThreshold = 0.7

	confidenceBase = 75.0
	confidenceSpan = 20.0

	congestionPenalty = 0.8

	optimizationBase = 0.85
	optimizationSpan = 0.1

	slotWindowStart = -2
	slotWindowEnd   = 4

	isoMillis = "2006-01-02T15:04:05.000Z07:00"
)

// CongestionPredictor implements Engine with static route tables.
type CongestionPredictor struct {
	table     RouteTable
	src       Source
	reference string
	clock     func() time.Time
}

// Option configures a CongestionPredictor.
type Option func(*CongestionPredictor)

// WithSource sets the random source. A nil source is ignored.
func WithSource(src Source) Option {
	return func(p *CongestionPredictor) {
		if src != nil {
			p.src = src
		}
	}
}

// WithRouteTable replaces the built-in route table.
func WithRouteTable(t RouteTable) Option {
	return func(p *CongestionPredictor) { p.table = t }
}

// WithReferenceRoute sets the route departure slots are scored against.
func WithReferenceRoute(id string) Option {
	return func(p *CongestionPredictor) {
		if id != "" {
			p.reference = id
		}
	}
}

// WithClock sets the clock used to default the hour and day type.
func WithClock(now func() time.Time) Option {
	return func(p *CongestionPredictor) {
		if now != nil {
			p.clock = now
		}
	}
}

// NewCongestionPredictor returns a predictor using the default route table,
// the global random source and the wall clock unless overridden.
func NewCongestionPredictor(opts ...Option) *CongestionPredictor {
	p := &CongestionPredictor{
		table:     DefaultRouteTable(),
		src:       GlobalSource,
		reference: DefaultReferenceRoute,
		clock:     time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Table returns the route table in use.
func (p *CongestionPredictor) Table() RouteTable { return p.table }

// ReferenceRoute returns the route used when scoring departure slots.
func (p *CongestionPredictor) ReferenceRoute() string { return p.reference }

// NormalizeHour wraps any integer hour into [0,23].
func NormalizeHour(hour int) int {
	return ((hour % 24) + 24) % 24
}

// HourWeight is the step function of congestion propensity over the day.
func HourWeight(hour int) float64 {
	h := NormalizeHour(hour)
	switch {
	case (h >= 7 && h <= 9) || (h >= 17 && h <= 19):
		return 0.9
	case h >= 10 && h <= 16:
		return 0.5
	default:
		return 0.2
	}
}

// DayWeight returns 0.6 on weekends and 1.0 for every other day type.
func DayWeight(day model.DayType) float64 {
	if day == model.Weekend {
		return 0.6
	}
	return 1.0
}

// Bucket maps a clamped score to its congestion level.
func Bucket(score float64) model.CongestionLevel {
	switch {
	case score < lowThreshold:
		return model.CongestionLow
	case score < mediumThreshold:
		return model.CongestionMedium
	default:
		return model.CongestionHigh
	}
}

// Score returns the congestion score before jitter and clamping. It can
// exceed 1 only if a route weight above 1 is configured.
func (p *CongestionPredictor) Score(hour int, day model.DayType, routeID string) float64 {
	return HourWeight(hour)*hourFactor + DayWeight(day)*dayFactor + p.table.Weight(routeID)*routeFactor
}

// Predict scores a route. Three values are drawn from the source, in order:
// score jitter, confidence and optimisation factor.
func (p *CongestionPredictor) Predict(hour int, day model.DayType, routeID string) model.PredictionOutput {
	score := p.Score(hour, day, routeID)
	jitter := (p.src.Float64() - 0.5) * jitterSpan
	final := clamp(score+jitter, 0, 1)

	confidence := round1(confidenceBase + p.src.Float64()*confidenceSpan)

	base := float64(p.table.BaseTravelTime(routeID))
	current := int(math.Round(base * (1 + final*congestionPenalty)))

	optimization := optimizationBase + p.src.Float64()*optimizationSpan
	predicted := int(math.Round(float64(current) * optimization))

	return model.PredictionOutput{
		CongestionLevel:     Bucket(final),
		Confidence:          confidence,
		CurrentTravelTime:   current,
		PredictedTravelTime: predicted,
		TimeSaved:           current - predicted,
	}
}

// OptimalSlots scores the hours from two before to four after hour against
// the reference route and sorts them by estimated time. Equal estimates keep
// their chronological order.
func (p *CongestionPredictor) OptimalSlots(hour int, day model.DayType) []model.DepartureSlot {
	slots := make([]model.DepartureSlot, 0, slotWindowEnd-slotWindowStart+1)
	for offset := slotWindowStart; offset <= slotWindowEnd; offset++ {
		slotHour := NormalizeHour(NormalizeHour(hour) + offset)
		out := p.Predict(slotHour, day, p.reference)
		slots = append(slots, model.DepartureSlot{
			Time:            fmt.Sprintf("%02d:00", slotHour),
			CongestionLevel: out.CongestionLevel,
			EstimatedTime:   out.PredictedTravelTime,
		})
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].EstimatedTime < slots[j].EstimatedTime
	})
	return slots
}

// Forecast builds the endpoint response for req. A missing route identifier
// yields a ValidationError wrapping ErrMissingRouteID; a panic while scoring
// is returned as an InternalComputationError.
func (p *CongestionPredictor) Forecast(req model.PredictionRequest) (resp model.PredictionResponse, err error) {
	if req.RouteID == "" {
		return model.PredictionResponse{}, &ValidationError{Field: "route_id", Err: ErrMissingRouteID}
	}
	defer func() {
		if r := recover(); r != nil {
			resp = model.PredictionResponse{}
			err = &InternalComputationError{Cause: fmt.Errorf("%v", r)}
		}
	}()

	now := p.clock()
	in := req.Input(now)
	out := p.Predict(in.Hour, in.DayType, in.RouteID)
	slots := p.OptimalSlots(in.Hour, in.DayType)
	return model.PredictionResponse{
		RouteID:               in.RouteID,
		CongestionLevel:       out.CongestionLevel,
		Confidence:            out.Confidence,
		PredictedTravelTime:   out.PredictedTravelTime,
		CurrentTravelTime:     out.CurrentTravelTime,
		TimeSaved:             out.TimeSaved,
		OptimalDepartureSlots: slots,
		Model:                 ModelName,
		Timestamp:             now.UTC().Format(isoMillis),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

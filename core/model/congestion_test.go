package model

import (
	"testing"
	"time"
)

func TestParseDayType(t *testing.T) {
	cases := map[string]DayType{
		"weekend":  Weekend,
		"WEEKEND":  Weekend,
		" weekend": Weekend,
		"weekday":  Weekday,
		"":         Weekday,
		"holiday":  Weekday,
	}
	for in, want := range cases {
		if got := ParseDayType(in); got != want {
			t.Errorf("ParseDayType(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestClassifyDay(t *testing.T) {
	sat := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	sun := sat.AddDate(0, 0, 1)
	mon := sat.AddDate(0, 0, 2)
	if ClassifyDay(sat) != Weekend || ClassifyDay(sun) != Weekend {
		t.Fatalf("expected weekend for saturday and sunday")
	}
	if ClassifyDay(mon) != Weekday {
		t.Fatalf("expected weekday for monday")
	}
}

func TestCongestionLevelValid(t *testing.T) {
	for _, l := range []CongestionLevel{CongestionLow, CongestionMedium, CongestionHigh} {
		if !l.Valid() {
			t.Errorf("%s should be valid", l)
		}
	}
	if CongestionLevel("Severe").Valid() {
		t.Fatalf("unexpected valid level")
	}
}

func TestRouteTimeSaved(t *testing.T) {
	r := Route{CurrentTravelTime: 42, PredictedTravelTime: 55}
	if r.TimeSaved() != -13 {
		t.Fatalf("expected -13 got %d", r.TimeSaved())
	}
}

func TestPredictionRequestInput(t *testing.T) {
	sat := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)

	in := PredictionRequest{RouteID: "route-1"}.Input(sat)
	if in != (PredictionInput{RouteID: "route-1", Hour: 14, DayType: Weekend}) {
		t.Fatalf("defaults not derived from now: %+v", in)
	}

	hour, day := 8, "holiday"
	in = PredictionRequest{RouteID: "route-2", Hour: &hour, DayType: &day}.Input(sat)
	if in != (PredictionInput{RouteID: "route-2", Hour: 8, DayType: Weekday}) {
		t.Fatalf("explicit fields not honoured: %+v", in)
	}
}

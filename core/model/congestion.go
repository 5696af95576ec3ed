package model

import (
	"strings"
	"time"
)

// CongestionLevel is the coarse bucket of predicted traffic density.
type CongestionLevel string

const (
	CongestionLow    CongestionLevel = "Low"
	CongestionMedium CongestionLevel = "Medium"
	CongestionHigh   CongestionLevel = "High"
)

// String returns the wire representation of the level.
func (l CongestionLevel) String() string { return string(l) }

// Valid reports whether l is one of the three known levels.
func (l CongestionLevel) Valid() bool {
	switch l {
	case CongestionLow, CongestionMedium, CongestionHigh:
		return true
	default:
		return false
	}
}

// DayType distinguishes weekdays from weekends.
type DayType string

const (
	Weekday DayType = "weekday"
	Weekend DayType = "weekend"
)

// String returns the wire representation of the day type.
func (d DayType) String() string { return string(d) }

// ParseDayType maps s to a DayType. Anything other than "weekend" is a weekday.
func ParseDayType(s string) DayType {
	if strings.EqualFold(strings.TrimSpace(s), string(Weekend)) {
		return Weekend
	}
	return Weekday
}

// ClassifyDay returns Weekend for Saturdays and Sundays, Weekday otherwise.
func ClassifyDay(t time.Time) DayType {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	default:
		return Weekday
	}
}

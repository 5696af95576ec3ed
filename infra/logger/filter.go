package logger

import (
	"strings"

	"github.com/rs/zerolog"

	corelogger "github.com/kilianp07/trafficpredict/core/logger"
)

// SuppressFilter drops messages containing any of the given substrings,
// whatever their level. Empty patterns are ignored.
func SuppressFilter(patterns ...string) corelogger.Filter {
	var ps []string
	for _, p := range patterns {
		if p != "" {
			ps = append(ps, p)
		}
	}
	return corelogger.FilterFunc(func(_ corelogger.Level, msg string) bool {
		for _, p := range ps {
			if strings.Contains(msg, p) {
				return true
			}
		}
		return false
	})
}

// filterHook discards zerolog events rejected by any filter.
type filterHook struct {
	filters []corelogger.Filter
}

func (h filterHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	lvl := toCoreLevel(level)
	for _, f := range h.filters {
		if f.Drop(lvl, msg) {
			e.Discard()
			return
		}
	}
}

func toCoreLevel(l zerolog.Level) corelogger.Level {
	switch {
	case l <= zerolog.DebugLevel:
		return corelogger.LevelDebug
	case l == zerolog.InfoLevel:
		return corelogger.LevelInfo
	case l == zerolog.WarnLevel:
		return corelogger.LevelWarn
	default:
		return corelogger.LevelError
	}
}

package logger

import corelogger "github.com/kilianp07/trafficpredict/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New returns a stdout Logger for the given component. The output format is
// detected via the APP_ENV variable. Services should prefer loggers built by
// a Factory so that configured filters and rotation apply.
func New(component string) Logger {
	return NewZerologLogger(component)
}

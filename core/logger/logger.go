package logger

// Logger exposes logging methods for common severity levels.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// StructuredLogger can log structured debug information. It is implemented by
// ZerologLogger and other adapters.
type StructuredLogger interface {
	Debugw(msg string, fields map[string]any)
}

// Level is the severity of a log message.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Filter decides whether a message is dropped before it reaches the output.
// Filters are configured once when the logging backend is built and are
// never swapped at runtime.
type Filter interface {
	Drop(level Level, msg string) bool
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(level Level, msg string) bool

// Drop calls f.
func (f FilterFunc) Drop(level Level, msg string) bool { return f(level, msg) }

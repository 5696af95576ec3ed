package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	corelogger "github.com/kilianp07/trafficpredict/core/logger"
)

// Options configure a Factory.
type Options struct {
	// Level is the minimum level written: debug, info, warn or error.
	Level string
	// Format is "json" or "console". Empty selects console when APP_ENV=dev.
	Format string
	// Writer overrides the output. When nil, File or stdout is used.
	Writer io.Writer
	// File enables a size-rotated log file instead of stdout.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Filters drop matching messages before they are written.
	Filters []corelogger.Filter
}

// Factory builds component loggers sharing one output, level and filter set.
type Factory struct {
	base   zerolog.Logger
	closer io.Closer
}

// NewFactory configures the logging backend. It is meant to be called once at
// process start and the resulting Factory passed to the components.
func NewFactory(opts Options) (*Factory, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}

	var out io.Writer = os.Stdout
	var closer io.Closer
	switch {
	case opts.Writer != nil:
		out = opts.Writer
	case opts.File != "":
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		out, closer = lj, lj
	}

	format := strings.ToLower(opts.Format)
	if format == "" && strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		format = "console"
	}
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: opts.Writer != nil || opts.File != ""}
	}

	base := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if len(opts.Filters) > 0 {
		base = base.Hook(filterHook{filters: opts.Filters})
	}
	return &Factory{base: base, closer: closer}, nil
}

// New returns a Logger tagged with the component name.
func (f *Factory) New(component string) Logger {
	return &ZerologLogger{log: f.base.With().Str("component", component).Logger()}
}

// Close releases the rotating log file, if any.
func (f *Factory) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "newsroom-cms"

// Options selects the level and output format of the logger
type Options struct {
	Level  string
	Format string // "json" or "pretty"
	Out    io.Writer
}

// New creates a new zerolog logger with structured output
func New(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	// Use pretty console output in development
	if opts.Format == "pretty" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(ParseLevel(opts.Level)).
			With().
			Timestamp().
			Caller().
			Str("service", serviceName).
			Logger()
	}

	// JSON output for production
	return zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

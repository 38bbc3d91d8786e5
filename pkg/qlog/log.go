// Package qlog provides the process-wide structured logger used by every
// coordinator component.
package qlog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Zero is the shared logger. Components log through it rather than holding
// their own loggers, matching the single-sink logging style used throughout
// this codebase.
var Zero = NewLogger(false)

// NewLogger builds a stdout logger: a colorized, human-formatted console
// writer when pretty is true, compact JSON lines when it is false.
func NewLogger(pretty bool) *zerolog.Logger {
	if !pretty {
		logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
		return &logger
	}
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()
	return &logger
}

// UpdateLevel parses a textual level ("debug", "info", ...) and repoints
// Zero at a logger with that level applied.
func UpdateLevel(level string) {
	l := parseLevel(level)
	updated := Zero.With().Logger().Level(l)
	Zero = &updated
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

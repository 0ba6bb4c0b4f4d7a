// Package logging builds the process-wide log sink. It is constructed once
// in main and threaded through every long-lived component as a field -- no
// code in this repository reaches for a package-level global logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger. When pretty is true it uses zerolog's console
// writer (handy for local `go run`); otherwise it emits line-delimited JSON,
// the shape a log aggregator expects in production.
func New(pretty bool, level zerolog.Level) zerolog.Logger {
	var w io.Writer = os.Stderr
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

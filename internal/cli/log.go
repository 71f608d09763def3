// Package cli implements the circuitgen command-line interface.
//
// # Commands
//
//   - generate: build one level from a generator, tier and seed
//   - batch: build many levels over consecutive seeds
//   - tune: add diodes to an existing level until it lands in its tier band
//   - snap: move an existing level's nodes onto a grid
//   - inspect: print layout, solver and play-test diagnostics for a level
//   - render: draw a level as DOT, SVG, PNG or PDF
//   - profiles: show the tier table in effect
//   - cache: clear the result cache or print its location
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging through
// charmbracelet/log on stderr. Results and tables go to stdout.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Generated 20 levels (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

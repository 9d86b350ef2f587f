// Package cli implements the dnaconvert command-line interface.
//
// Commands convert single files or streams, convert whole directories,
// list the supported formats, run the HTTP front end and inspect the
// configuration. The CLI is built on cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - convert: convert one file, or stdin to stdout
//   - batch: convert every file in a directory, optionally into a zip archive
//   - formats: list the supported formats
//   - serve: run the HTTP API
//   - config: show the configuration file location and values
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Status lines
// and logs go to stderr so converted output can be piped from stdout.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Converted 42 records (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

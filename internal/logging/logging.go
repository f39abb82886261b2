// Package logging builds the leveled diagnostic logger.
// User-facing output never goes through it.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Prefix is printed in front of every log line.
const Prefix = "taskcli"

// New returns a text logger writing to w. Debug enables debug lines;
// otherwise only warnings and errors are written.
func New(w io.Writer, debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: debug,
		Prefix:          Prefix,
	})
}

// Discard returns a logger that writes nothing.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// Package logging builds the charmbracelet loggers shared by the GUI, the CLI
// and the download pipeline.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when no level or an unknown level is configured
const DefaultLevel = log.InfoLevel

// New creates a [log.Logger] writing to w with timestamps enabled.
//
// The writer defaults to [os.Stderr]; an empty or invalid level falls back to
// [DefaultLevel].
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           ParseLevel(level),
	})
	return l
}

// Discard returns a logger that drops everything, for tests and quiet runs.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel maps a config string to a [log.Level]
func ParseLevel(level string) log.Level {
	if strings.TrimSpace(level) == "" {
		return DefaultLevel
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return DefaultLevel
	}
	return lvl
}

// Component derives a prefixed child logger; a nil parent yields Discard().
func Component(parent *log.Logger, name string) *log.Logger {
	if parent == nil {
		return Discard()
	}
	return parent.WithPrefix(name)
}

// Package logging builds the loggers used throughout portix.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the named level ("debug", "info",
// "warn", "error"). Unknown or empty levels fall back to info.
func New(level string, w io.Writer) *log.Logger {
	l := log.New(w)
	l.SetTimeFormat("")
	l.SetLevel(ParseLevel(level))
	return l
}

// Discard returns a logger that drops everything. Components use it when
// no logger was configured.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel converts a level name to a log level.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	}
	return log.InfoLevel
}

// OrDiscard returns l, or a discarding logger if l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// Package a2log defines the engine's logging interface and a default
// implementation backed by charmbracelet/log, matching the severity
// taxonomy (debug/info/warning/error/fatal) the engine's log level
// property exposes to scripts and host applications.
package a2log

import (
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Severity orders log messages from least to most urgent, matching the
// engine's LOGLEVELS property range.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityFatal
)

// Logger is the engine's logging sink. msg is a printf-style format for
// args. Implementations must be safe to call from the API thread; the
// engine's Process also logs late-command warnings through it, so with
// a realtime driver it is called from the audio thread as well.
type Logger interface {
	Log(sev Severity, msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warning(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
	// SetSilent mutes everything below SeverityError, matching the
	// engine's A2_SILENT init flag.
	SetSilent(silent bool)
}

// charmLogger adapts charmbracelet/log's structured logger to the
// Logger interface.
type charmLogger struct {
	l      *charmlog.Logger
	silent bool
}

// New creates the default Logger, writing to stderr.
func New() Logger {
	return &charmLogger{l: charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
	})}
}

func (c *charmLogger) SetSilent(silent bool) {
	c.silent = silent
}

func (c *charmLogger) Log(sev Severity, msg string, args ...interface{}) {
	if c.silent && sev < SeverityError {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	switch sev {
	case SeverityDebug:
		c.l.Debug(msg)
	case SeverityInfo:
		c.l.Info(msg)
	case SeverityWarning:
		c.l.Warn(msg)
	case SeverityError:
		c.l.Error(msg)
	case SeverityFatal:
		c.l.Fatal(msg)
	}
}

func (c *charmLogger) Debug(msg string, args ...interface{})   { c.Log(SeverityDebug, msg, args...) }
func (c *charmLogger) Info(msg string, args ...interface{})    { c.Log(SeverityInfo, msg, args...) }
func (c *charmLogger) Warning(msg string, args ...interface{}) { c.Log(SeverityWarning, msg, args...) }
func (c *charmLogger) Error(msg string, args ...interface{})   { c.Log(SeverityError, msg, args...) }
func (c *charmLogger) Fatal(msg string, args ...interface{})   { c.Log(SeverityFatal, msg, args...) }

// Nop is a Logger that discards everything, useful for A2_SILENT
// operation or tests that don't want log noise.
type Nop struct{}

func (Nop) Log(Severity, string, ...interface{}) {}
func (Nop) Debug(string, ...interface{})         {}
func (Nop) Info(string, ...interface{})          {}
func (Nop) Warning(string, ...interface{})       {}
func (Nop) Error(string, ...interface{})         {}
func (Nop) Fatal(string, ...interface{})         {}
func (Nop) SetSilent(bool)                       {}

// Package diagnostics provides the small leveled logger the dispatcher uses
// to trace handler search, transitions, and faults - the Go equivalent of
// the module-level logger.info/logger.error calls sprinkled through the
// original Python hsm sources (original_source/src/hsm/__init__.py: "logger
// = logging.getLogger(__name__)", then logger.info("A.entry") and
// logger.error(f"Unknown event ...") at the dispatch boundary).
//
// No third-party logging library appears anywhere in the retrieval pack -
// every example repo either logs nothing or, like the teacher, just writes
// entry/exit names to a bytes.Buffer in tests - so this is intentionally a
// minimal stdlib wrapper around log.Logger rather than an adopted
// dependency; see DESIGN.md for that justification.
package diagnostics

import (
	"io"
	"log"
	"os"
)

// Level selects which messages a Logger emits.
type Level int

const (
	LevelError Level = iota
	LevelInfo
	LevelDebug
)

// Logger is a small leveled wrapper around the standard library's
// log.Logger. The zero Logger discards everything below LevelError and
// writes to os.Stderr, matching the quiet-by-default posture a library
// embedded in someone else's binary should have.
type Logger struct {
	level Level
	std   *log.Logger
}

// New returns a Logger at level, writing to w with no extra prefix or
// timestamp (callers that want timestamps wrap w themselves, mirroring the
// stdlib's own "bring your own format" philosophy).
func New(level Level, w io.Writer) *Logger {
	return &Logger{level: level, std: log.New(w, "", 0)}
}

// Default returns a Logger at LevelInfo writing to os.Stderr.
func Default() *Logger {
	return New(LevelInfo, os.Stderr)
}

func (l *Logger) log(level Level, prefix, format string, args []any) {
	if l == nil || level > l.level {
		return
	}
	std := l.std
	if std == nil {
		std = log.New(os.Stderr, "", 0)
	}
	std.Printf(prefix+format, args...)
}

// Errorf logs at LevelError.
func (l *Logger) Errorf(format string, args ...any) {
	l.log(LevelError, "ERROR hsm: ", format, args)
}

// Infof logs at LevelInfo.
func (l *Logger) Infof(format string, args ...any) {
	l.log(LevelInfo, "INFO hsm: ", format, args)
}

// Debugf logs at LevelDebug.
func (l *Logger) Debugf(format string, args ...any) {
	l.log(LevelDebug, "DEBUG hsm: ", format, args)
}

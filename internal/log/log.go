package log

import (
	"io"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[Logger]

// SetDefaultLogger sets the logger behind the package level functions.  nil silences them.
func SetDefaultLogger(logger *Logger) {
	defaultLogger.Store(logger)
}

// DefaultLogger returns the current default logger, which may be nil
func DefaultLogger() *Logger {
	return defaultLogger.Load()
}

// With returns a child of the default logger adding args to every record.  Without a default logger the result
// discards everything.
func With(args ...any) *Logger {
	if l := defaultLogger.Load(); l != nil {
		return l.With(args...)
	}
	return NewWithWriter(io.Discard, "error")
}

// Debug logs at debug level using the default logger
func Debug(msg string, args ...any) {
	if l := defaultLogger.Load(); l != nil {
		l.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if l := defaultLogger.Load(); l != nil {
		l.Info(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if l := defaultLogger.Load(); l != nil {
		l.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if l := defaultLogger.Load(); l != nil {
		l.Error(msg, args...)
	}
}

// Trace logs at debug level when the logger was created with the "trace" level.  Seeks and raw player traffic go
// here as they fire many times a second.
func Trace(msg string, args ...any) {
	if l := defaultLogger.Load(); l != nil {
		l.Trace(msg, args...)
	}
}

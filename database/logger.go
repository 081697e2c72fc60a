package database

import (
	"time"

	"github.com/hupe1980/rtdb/logging"
)

// loggerAdapter wraps a logging.Logger and exposes convenience methods
// used throughout the database package. It tolerates a nil logger by
// substituting a NoOpLogger when constructed with nil.
type loggerAdapter struct {
	logger logging.Logger
}

// newLoggerAdapter constructs a loggerAdapter with a non-nil logger.
func newLoggerAdapter(l logging.Logger) *loggerAdapter {
	if l == nil {
		l = logging.NoOpLogger{}
	}
	return &loggerAdapter{logger: l}
}

// LogDebug logs a debug message.
func (l *loggerAdapter) LogDebug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// LogInfo logs an info message.
func (l *loggerAdapter) LogInfo(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// LogWarn logs a warning message.
func (l *loggerAdapter) LogWarn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// LogError logs an error message.
func (l *loggerAdapter) LogError(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// StartTimer returns a func that logs the elapsed time of op when called.
func (l *loggerAdapter) StartTimer(op string) func() {
	if sl, ok := l.logger.(*logging.StoreLogger); ok {
		return sl.StartTimer(op)
	}
	start := time.Now()
	return func() { l.logger.Debug("Operation completed", "operation", op, "duration", time.Since(start)) }
}

// LogWrite records the outcome of one mutating operation. A StoreLogger
// gets its dedicated write record, any other logger a debug line.
func (l *loggerAdapter) LogWrite(op, path string, start time.Time, events int, err error) {
	dur := time.Since(start)
	if sl, ok := l.logger.(*logging.StoreLogger); ok {
		sl.LogWrite(op, path, dur, events, err)
		return
	}
	if err != nil {
		l.logger.Error("Write failed", "op", op, "path", path, "error", err)
		return
	}
	l.logger.Debug("Write applied", "op", op, "path", path, "events", events, "duration", dur)
}

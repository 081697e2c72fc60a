package logging

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// LogrusAdapter wraps a *logrus.Entry to implement the Logger interface.
// slog style key/value args are converted into logrus fields; a trailing
// key without value is recorded under "!BADKEY" like slog does.
type LogrusAdapter struct {
	entry *logrus.Entry
}

// NewLogrusAdapter creates a Logger from a logrus logger.
func NewLogrusAdapter(logger *logrus.Logger) Logger {
	return &LogrusAdapter{entry: logrus.NewEntry(logger)}
}

// NewLogrusEntryAdapter creates a Logger from a pre-configured logrus entry,
// e.g. one carrying a component field.
func NewLogrusEntryAdapter(entry *logrus.Entry) Logger {
	return &LogrusAdapter{entry: entry}
}

// Debug logs a debug message.
func (l *LogrusAdapter) Debug(msg string, args ...any) { l.with(args).Debug(msg) }

// Info logs an informational message.
func (l *LogrusAdapter) Info(msg string, args ...any) { l.with(args).Info(msg) }

// Warn logs a warning message.
func (l *LogrusAdapter) Warn(msg string, args ...any) { l.with(args).Warn(msg) }

// Error logs an error message.
func (l *LogrusAdapter) Error(msg string, args ...any) { l.with(args).Error(msg) }

func (l *LogrusAdapter) with(args []any) *logrus.Entry {
	if len(args) == 0 {
		return l.entry
	}
	return l.entry.WithFields(fieldsFromArgs(args))
}

func fieldsFromArgs(args []any) logrus.Fields {
	fields := make(logrus.Fields, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fields["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields[key] = args[i+1]
	}
	return fields
}

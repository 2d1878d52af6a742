// Package logging is the structured logging abstraction shared by every
// component. Components receive a Logger through their constructor so tests can
// substitute MockLogger.
package logging

// Logger is a leveled, structured logger. Loggers returned by the With* methods
// carry their fields into every later entry.
type Logger interface {
	// Debug logs a debug-level message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info-level message with optional fields
	Info(msg string, fields ...Field)

	// Warn logs a warning-level message with optional fields
	Warn(msg string, fields ...Field)

	// Error logs an error-level message with optional fields
	Error(msg string, fields ...Field)

	// WithError returns a new logger with an error field attached
	WithError(err error) Logger

	// WithField returns a new logger with a single field attached
	WithField(key string, value interface{}) Logger

	// WithFields returns a new logger with multiple fields attached
	WithFields(fields ...Field) Logger
}

// Field is one key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// GetLogger returns the default logger: info level, text format, stderr.
func GetLogger() Logger {
	return NewLogrusAdapter("info", FormatText)
}

// OrDefault returns logger, or the default logger when it is nil.
func OrDefault(logger Logger) Logger {
	if logger == nil {
		return GetLogger()
	}
	return logger
}

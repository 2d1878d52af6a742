package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configures a logrus-backed Logger.
type Options struct {
	Level  string
	Format string
	// Output defaults to stderr so that command output on stdout stays clean.
	Output io.Writer
}

// LogrusAdapter implements Logger on top of a logrus entry.
type LogrusAdapter struct {
	entry *logrus.Entry
}

// NewLogrusAdapter returns a stderr logger. An unknown level falls back to
// info, an unknown format to text.
func NewLogrusAdapter(level, format string) Logger {
	return New(Options{Level: level, Format: format})
}

// New builds a Logger from opts.
func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(opts.Format, FormatJSON) {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap:        logrus.FieldMap{logrus.FieldKeyMsg: "message"},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	adapter := &LogrusAdapter{entry: logrus.NewEntry(logger)}
	if err != nil && opts.Level != "" {
		adapter.Warn("Unknown log level, using info", Field{Key: "level", Value: opts.Level})
	}
	return adapter
}

// ValidateLevel reports whether level is a level name logrus understands.
func ValidateLevel(level string) error {
	if _, err := logrus.ParseLevel(strings.ToLower(level)); err != nil {
		return fmt.Errorf("invalid log level: %s", level)
	}
	return nil
}

// ValidateFormat reports whether format is text or json.
func ValidateFormat(format string) error {
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", format)
	}
	return nil
}

// Debug logs a debug-level message with optional fields.
func (l *LogrusAdapter) Debug(msg string, fields ...Field) { l.with(fields).Debug(msg) }

// Info logs a info-level message with optional fields.
func (l *LogrusAdapter) Info(msg string, fields ...Field) { l.with(fields).Info(msg) }

// Warn logs a warning-level message with optional fields.
func (l *LogrusAdapter) Warn(msg string, fields ...Field) { l.with(fields).Warn(msg) }

// Error logs a error-level message with optional fields.
func (l *LogrusAdapter) Error(msg string, fields ...Field) { l.with(fields).Error(msg) }

// WithError returns a logger carrying err under the "error" key.
func (l *LogrusAdapter) WithError(err error) Logger {
	return &LogrusAdapter{entry: l.entry.WithError(err)}
}

// WithField returns a logger carrying one extra field.
func (l *LogrusAdapter) WithField(key string, value interface{}) Logger {
	return &LogrusAdapter{entry: l.entry.WithField(key, value)}
}

// WithFields returns a logger carrying the given fields.
func (l *LogrusAdapter) WithFields(fields ...Field) Logger {
	return &LogrusAdapter{entry: l.with(fields)}
}

func (l *LogrusAdapter) with(fields []Field) *logrus.Entry {
	if len(fields) == 0 {
		return l.entry
	}
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return l.entry.WithFields(data)
}

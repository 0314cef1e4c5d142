package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config controls the logrus-backed logger.
type Config struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string
	// Format is json or text. Defaults to json.
	Format string
	// Output defaults to stdout.
	Output io.Writer
}

// LogrusLogger wraps a logrus entry to implement the Logger interface.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger creates a logger from the given config.
func NewLogrusLogger(cfg Config) *LogrusLogger {
	l := logrus.New()

	if strings.EqualFold(cfg.Format, "text") {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	l.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

// Debug logs a debug-level message.
func (l *LogrusLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {
	l.with(fields).Debug(msg)
}

// Info logs an info-level message.
func (l *LogrusLogger) Info(ctx context.Context, msg string, fields map[string]interface{}) {
	l.with(fields).Info(msg)
}

// Warn logs a warning-level message.
func (l *LogrusLogger) Warn(ctx context.Context, msg string, fields map[string]interface{}) {
	l.with(fields).Warn(msg)
}

// Error logs an error-level message.
func (l *LogrusLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {
	l.with(fields).Error(msg)
}

// WithField returns a new logger with the given field added.
func (l *LogrusLogger) WithField(key string, value interface{}) Logger {
	return &LogrusLogger{entry: l.entry.WithField(key, value)}
}

// WithFields returns a new logger with the given fields added.
func (l *LogrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &LogrusLogger{entry: l.entry.WithFields(fields)}
}

func (l *LogrusLogger) with(fields map[string]interface{}) *logrus.Entry {
	if len(fields) == 0 {
		return l.entry
	}
	return l.entry.WithFields(fields)
}

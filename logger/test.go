package logger

import (
	"context"
	"sync"
)

// LogEntry is one log record captured by the test logger.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// TestLogger captures log entries for assertions. Loggers derived via
// WithField share the parent's sink, so a test sees everything regardless of
// which derived logger wrote it.
type TestLogger struct {
	sink   *logSink
	fields map[string]interface{}
}

type logSink struct {
	mu      sync.RWMutex
	entries []LogEntry
}

// NewTestLogger creates a test logger with an empty sink.
func NewTestLogger() *TestLogger {
	return &TestLogger{
		sink:   &logSink{},
		fields: map[string]interface{}{},
	}
}

// Debug logs a debug-level message.
func (l *TestLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("debug", msg, fields)
}

// Info logs an info-level message.
func (l *TestLogger) Info(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("info", msg, fields)
}

// Warn logs a warning-level message.
func (l *TestLogger) Warn(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("warn", msg, fields)
}

// Error logs an error-level message.
func (l *TestLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("error", msg, fields)
}

// WithField returns a derived logger writing to the same sink.
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a derived logger writing to the same sink.
func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &TestLogger{sink: l.sink, fields: merged}
}

func (l *TestLogger) record(level, msg string, fields map[string]interface{}) {
	all := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		all[k] = v
	}
	for k, v := range fields {
		all[k] = v
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.entries = append(l.sink.entries, LogEntry{Level: level, Message: msg, Fields: all})
}

// Entries returns a copy of all captured log entries.
func (l *TestLogger) Entries() []LogEntry {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()
	entries := make([]LogEntry, len(l.sink.entries))
	copy(entries, l.sink.entries)
	return entries
}

// Reset clears all captured log entries.
func (l *TestLogger) Reset() {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.entries = nil
}

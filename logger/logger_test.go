package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogrusLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogrusLogger(Config{Level: "debug", Output: &buf})

	log.Info(context.Background(), "server started", map[string]interface{}{"port": 8080})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "server started", entry["msg"])
	assert.Equal(t, float64(8080), entry["port"])
	assert.Equal(t, "info", entry["level"])
}

func TestLogrusLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogrusLogger(Config{Level: "warn", Output: &buf})

	log.Info(context.Background(), "hidden", nil)
	assert.Empty(t, buf.String())

	log.Error(context.Background(), "shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestLogrusLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogrusLogger(Config{Level: "nonsense", Output: &buf})

	log.Debug(context.Background(), "hidden", nil)
	assert.Empty(t, buf.String())

	log.Info(context.Background(), "shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestLogrusLoggerWithField(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogrusLogger(Config{Output: &buf}).WithField("component", "engine")

	log.Info(context.Background(), "step executed", nil)
	assert.Contains(t, buf.String(), `"component":"engine"`)
}

func TestTestLoggerSharedSink(t *testing.T) {
	log := NewTestLogger()
	derived := log.WithField("scenario", "Search flow")

	derived.Warn(context.Background(), "no page loaded", nil)
	log.Info(context.Background(), "done", map[string]interface{}{"steps": 3})

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0].Level)
	assert.Equal(t, "Search flow", entries[0].Fields["scenario"])
	assert.Equal(t, 3, entries[1].Fields["steps"])

	log.Reset()
	assert.Empty(t, log.Entries())
}

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	} {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&buf, "warn", "JSON")
	logger.Info("hidden")
	logger.Warn("search finished", "strategy", "grid", "best_score", 0.85)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "search finished", record["msg"])
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "grid", record["strategy"])
	assert.Equal(t, 0.85, record["best_score"])
}

func TestInitText(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer

	logger := Init(&buf, "debug", "text")
	slog.Debug("loaded", "rows", 10)

	assert.Same(t, logger, slog.Default())
	assert.Contains(t, buf.String(), "level=DEBUG msg=loaded rows=10")
}

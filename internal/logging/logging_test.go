package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStructuredLoggerEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	logger.Info("feed_refresh", slog.Int("vehicles", 3))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "feed_refresh", record["msg"])
	assert.Equal(t, float64(3), record["vehicles"])
}

func TestLogErrorIncludesErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	LogError(logger, "provider call failed", errors.New("connection refused"),
		slog.String("component", "traffic"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "provider call failed", record["msg"])
	assert.Equal(t, "connection refused", record["error"])
	assert.Equal(t, "traffic", record["component"])
}

func TestLogErrorNilLoggerIsNoOp(t *testing.T) {
	assert.NotPanics(t, func() {
		LogError(nil, "message", errors.New("err"))
	})
}

func TestLogHTTPRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	LogHTTPRequest(logger, "GET", "/api/where/eta", 200, 12.5)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "http_request", record["msg"])
	assert.Equal(t, "GET", record["method"])
	assert.Equal(t, "/api/where/eta", record["path"])
	assert.Equal(t, float64(200), record["status"])
}

func TestLoggerContextRoundTrip(t *testing.T) {
	logger := NewStructuredLogger(&bytes.Buffer{}, slog.LevelInfo)
	ctx := WithLogger(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContextWithoutLoggerReturnsDefault(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

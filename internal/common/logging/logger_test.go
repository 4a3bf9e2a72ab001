package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, level LogLevel) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := NewZapLogger(LogConfig{Level: level, Output: &buf})
	require.NoError(t, err)
	return logger, &buf
}

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel(" ERROR "))
	assert.Equal(t, InfoLevel, ParseLevel(""))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
}

func TestZapAdapter_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(t, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message", Field{"task", "Patch firewall"})
	logger.Error("error message", errors.New("append failed"))

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "Patch firewall")
	assert.Contains(t, out, "error message")
	assert.Contains(t, out, "append failed")
}

func TestZapAdapter_WithFields(t *testing.T) {
	logger, buf := newBufferLogger(t, DebugLevel)

	logger.WithFields(Field{"component", "tasklog"}).Info("scan finished", Field{"rows", 3})

	out := buf.String()
	assert.Contains(t, out, "component")
	assert.Contains(t, out, "tasklog")
	assert.Contains(t, out, "rows")
	assert.Same(t, logger, logger.WithFields())
}

func TestZapAdapter_WithContext(t *testing.T) {
	logger, buf := newBufferLogger(t, DebugLevel)

	assert.Same(t, logger, logger.WithContext(context.Background()))

	ctx := ContextWithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))

	logger.WithContext(ctx).Info("handled")
	assert.Contains(t, buf.String(), "req-123")
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	logger, buf := newBufferLogger(t, DebugLevel)
	SetGlobalLogger(logger)

	Info("global info")
	Warn("global warn")
	Error("global error", nil)
	WithFields(Field{"k", "v"}).Debug("global debug")

	out := buf.String()
	assert.Contains(t, out, "global info")
	assert.Contains(t, out, "global warn")
	assert.Contains(t, out, "global error")
	assert.Contains(t, out, "global debug")
}

func TestErrField(t *testing.T) {
	err := errors.New("boom")
	field := Err(err)
	assert.Equal(t, "error", field.Key)
	assert.Equal(t, err, field.Value)
}

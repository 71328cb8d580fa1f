package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, level LogLevel, format string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := NewZapLogger(LogConfig{Level: level, Output: &buf, Format: format})
	require.NoError(t, err)
	return logger, &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{" error ", ErrorLevel},
		{"", InfoLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestZapAdapter_Levels(t *testing.T) {
	logger, buf := newBufferLogger(t, DebugLevel, "")

	logger.Debug("debug message", Field{"key", "value"})
	logger.Info("info message", Int("count", 42))
	logger.Warn("warn message", Bool("enabled", true))
	logger.Error("error message", errors.New("vendor unavailable"), String("operation", "create"))

	output := buf.String()
	for _, want := range []string{"DEBUG", "debug message", "INFO", "count", "WARN", "ERROR", "vendor unavailable", "create"} {
		assert.Contains(t, output, want)
	}
}

func TestZapAdapter_FiltersBelowLevel(t *testing.T) {
	logger, buf := newBufferLogger(t, WarnLevel, "")

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("visible warn")

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "visible warn")
}

func TestZapAdapter_JSONWithFieldsAndContext(t *testing.T) {
	logger, buf := newBufferLogger(t, InfoLevel, "json")

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithEnvelopeID(ctx, "env-1")

	logger.WithFields(Field{"component", "adobe-sign"}).WithContext(ctx).Info("agreement created")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "agreement created", entry["msg"])
	assert.Equal(t, "adobe-sign", entry["component"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "env-1", entry["envelope_id"])
}

func TestZapAdapter_WithContextWithoutValues(t *testing.T) {
	logger, _ := newBufferLogger(t, InfoLevel, "")

	assert.Same(t, logger, logger.WithContext(context.Background()))
	assert.Same(t, logger, logger.WithFields())
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	logger, buf := newBufferLogger(t, InfoLevel, "")
	SetGlobalLogger(logger)

	Info("global info")
	WithFields(Field{"scope", "test"}).Warn("global warn")
	Error("global error", nil)

	output := buf.String()
	assert.Contains(t, output, "global info")
	assert.Contains(t, output, "scope")
	assert.Contains(t, output, "global error")
}

func TestInitGlobalLogger_LogFile(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	path := t.TempDir() + "/adapter.log"
	t.Setenv("LOG_FILE", path)
	t.Setenv("LOG_LEVEL", "debug")

	require.NoError(t, InitGlobalLogger())
	MustSync()

	Debug("written to file")
	MustSync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Logger initialized")
	assert.Contains(t, string(data), "written to file")
}

func TestInitGlobalLogger_BadFile(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	t.Setenv("LOG_FILE", t.TempDir()+"/missing-dir/adapter.log")
	assert.Error(t, InitGlobalLogger())
}

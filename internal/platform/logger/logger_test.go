package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		want  slog.Level
		known bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}
	for _, tc := range tests {
		got, ok := logger.ParseLevel(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.known, ok, tc.in)
	}
}

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &logger.TestLogBuffer{}
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "warn"}, buf)
	require.NoError(t, err)
	require.NotNil(t, l)

	l.Info("dropped")
	l.Warn("kept", "component", "test")
	slog.Error("via default")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "kept", entries[0]["msg"])
	assert.Equal(t, "via default", entries[1]["msg"])
	logger.AssertLogField(t, buf, "component", "test")
}

func TestSetupWithWriter_InvalidLevel(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &logger.TestLogBuffer{}
	_, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "loud"}, buf)
	require.NoError(t, err)

	logger.AssertLogContains(t, buf, "invalid log level configured")
	logger.AssertLogField(t, buf, "configured_level", "loud")
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Nil(t, logger.FromContext(ctx))
	assert.Same(t, slog.Default(), logger.FromContextOrDefault(ctx, nil))

	fallback, _ := logger.NewTestLogger(t)
	assert.Same(t, fallback, logger.FromContextOrDefault(ctx, fallback))
	assert.Empty(t, logger.TraceIDFromContext(ctx))

	l, buf := logger.NewTestLogger(t)
	ctx = logger.WithLogger(ctx, l)
	assert.Same(t, l, logger.FromContext(ctx))

	ctx = logger.WithTraceID(ctx, "abc123")
	assert.Equal(t, "abc123", logger.TraceIDFromContext(ctx))

	logger.FromContextOrDefault(ctx, nil).Info("traced")
	logger.AssertLogField(t, buf, "trace_id", "abc123")
}

package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("Should return logger from context when present", func(t *testing.T) {
		expectedLogger := NewLogger(TestConfig())
		ctx := ContextWithLogger(t.Context(), expectedLogger)

		actualLogger := FromContext(ctx)

		require.NotNil(t, actualLogger)
		assert.Equal(t, expectedLogger, actualLogger)
	})

	t.Run("Should return default logger when no logger in context", func(t *testing.T) {
		logger := FromContext(t.Context())

		require.NotNil(t, logger)
		logger.Info("test message from default logger")
	})

	t.Run("Should return default logger when wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(t.Context(), LoggerCtxKey, "not a logger")

		logger := FromContext(ctx)

		require.NotNil(t, logger)
		logger.Info("test message from fallback logger")
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("Should write structured fields to the configured output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: DebugLevel, Output: &buf})

		logger.Debug("deleting runtime key", "key", "PDY")

		output := buf.String()
		assert.Contains(t, output, "deleting runtime key")
		assert.Contains(t, output, "PDY")
	})

	t.Run("Should suppress messages below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: ErrorLevel, Output: &buf})

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Error("error message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "error message")
	})

	t.Run("Should emit JSON when configured", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true})

		logger.Info("cycle computed", "cyc", 6)

		assert.Contains(t, buf.String(), `"msg":"cycle computed"`)
	})

	t.Run("Should carry With fields on child loggers", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: InfoLevel, Output: &buf}).With("task", "analysis")

		logger.Info("configured")

		assert.Contains(t, buf.String(), "analysis")
	})

	t.Run("Should fall back to defaults when config is nil", func(t *testing.T) {
		logger := NewLogger(nil)

		require.NotNil(t, logger)
	})
}

func TestTestConfig(t *testing.T) {
	t.Run("Should discard output", func(t *testing.T) {
		logger := NewLogger(TestConfig())
		logger.Debug("goes nowhere")
	})
}

func TestLogLevel(t *testing.T) {
	t.Run("Should map unknown levels to info", func(t *testing.T) {
		level := NoLevel
		info := InfoLevel
		assert.Equal(t, info.ToCharmlogLevel(), level.ToCharmlogLevel())
	})

	t.Run("Should print its string form", func(t *testing.T) {
		level := WarnLevel
		assert.Equal(t, "warn", level.String())
		assert.False(t, strings.Contains(level.String(), " "))
	})
}

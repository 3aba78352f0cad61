package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscard(t *testing.T) {
	logger := Discard()
	require.NotNil(t, logger)

	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
	logger.Info("dropped")
}

func TestDefault(t *testing.T) {
	t.Run("nil returns discard", func(t *testing.T) {
		logger := Default(nil)
		require.NotNil(t, logger)
		assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	})

	t.Run("non-nil is returned as is", func(t *testing.T) {
		var buf bytes.Buffer
		given := slog.New(slog.NewTextHandler(&buf, nil))
		assert.Same(t, given, Default(given))
	})
}

func TestNew(t *testing.T) {
	t.Run("quiet suppresses debug and info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, false)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message", "path", "a.har")

		out := buf.String()
		assert.NotContains(t, out, "debug message")
		assert.NotContains(t, out, "info message")
		assert.Contains(t, out, "warn message")
		assert.Contains(t, out, "path=a.har")
	})

	t.Run("verbose emits debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, true)

		logger.Debug("loaded", "entries", 3)

		assert.Contains(t, buf.String(), "entries=3")
	})

	t.Run("omits timestamps", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf, true).Info("hello")

		assert.NotContains(t, buf.String(), "time=")
	})
}

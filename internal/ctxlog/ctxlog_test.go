package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	require.Same(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer
	logger := New("debug", "json", &buf)
	ctx := WithLogger(context.Background(), logger)
	require.Same(t, logger, FromContext(ctx))

	FromContext(ctx).Debug("placed", "course", "CS101")
	require.Contains(t, buf.String(), `"course":"CS101"`)
}

func TestNew_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New("warn", "text", &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	var level slog.LevelVar
	log := New(&buf, &level).Named("app")

	log.Info(context.Background(), "mode changed",
		String("mode", "two_hands"),
		Int("frame", 12),
		Float64("scale", 1.5),
		Error(errors.New("boom")),
	)

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, `msg="mode changed"`)
	assert.Contains(t, out, "component=app")
	assert.Contains(t, out, "mode=two_hands")
	assert.Contains(t, out, "frame=12")
	assert.Contains(t, out, "scale=1.5")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "logger_test.go:")
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(slog.LevelWarn)
	log := New(&buf, &level)

	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 1, strings.Count(out, "shown"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestGlobal(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	require.NoError(t, SetLevelString("debug"))
	defer SetLevel(slog.LevelInfo)

	Named("store").Debug(context.Background(), "opened")
	assert.Contains(t, buf.String(), "component=store")
}

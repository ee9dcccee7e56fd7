package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithOptions(&buf, "warn", "text")

	log.Info("hidden")
	log.Warn("shown", "page", "p1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "page=p1")

	buf.Reset()
	log.SetLevel("debug")
	log.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestLogger_JSONWith(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithOptions(&buf, "info", "json").With("week", "2025-W21")

	log.Info("fetched")

	require.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), `"week":"2025-W21"`)
	assert.Contains(t, buf.String(), `"msg":"fetched"`)
}

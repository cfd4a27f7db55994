package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		name      string
		level     string
		format    string
		wantLevel slog.Level
		wantJSON  bool
		warning   string
	}{
		{name: "debug text", level: "debug", format: "text", wantLevel: slog.LevelDebug},
		{name: "warn json", level: "warn", format: "json", wantLevel: slog.LevelWarn, wantJSON: true},
		{name: "case insensitive", level: "ERROR", format: "TEXT", wantLevel: slog.LevelError},
		{name: "unknown level", level: "trace", format: "text", wantLevel: slog.LevelInfo, warning: "Unknown log level"},
		{name: "unknown format", level: "info", format: "xml", wantLevel: slog.LevelInfo, wantJSON: true, warning: "Unknown log format"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(tc.level, tc.format, &buf)

			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tc.wantLevel))
			assert.False(t, logger.Enabled(ctx, tc.wantLevel-1))

			if tc.warning == "" {
				assert.Empty(t, buf.String(), "a valid configuration logs nothing")
			} else {
				assert.Contains(t, buf.String(), tc.warning)
			}

			buf.Reset()
			logger.Error("hello")
			line := strings.TrimSpace(buf.String())
			require.NotEmpty(t, line)
			assert.Equal(t, tc.wantJSON, json.Valid([]byte(line)))
		})
	}
}

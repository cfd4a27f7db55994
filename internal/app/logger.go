package app

import (
	"io"
	"log/slog"
	"strings"
)

// newLogger creates the session's slog.Logger. It does not set the global
// logger, allowing for isolated logger instances. An unknown level falls
// back to info and an unknown format to json; either is reported once
// through the new logger instead of being dropped silently.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	levelErr := level.UnmarshalText([]byte(levelStr))
	if levelErr != nil {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	knownFormat := true
	switch strings.ToLower(formatStr) {
	case "text":
		handler = slog.NewTextHandler(outW, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(outW, handlerOpts)
	default:
		knownFormat = false
		handler = slog.NewJSONHandler(outW, handlerOpts)
	}

	logger := slog.New(handler)
	if levelErr != nil {
		logger.Warn("Unknown log level, using info.", "level", levelStr)
	}
	if !knownFormat {
		logger.Warn("Unknown log format, using json.", "format", formatStr)
	}
	return logger
}

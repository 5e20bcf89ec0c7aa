package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	goslides "github.com/VantageDataChat/GoSlides"
)

var logLevelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the CLI logger. Unknown levels fall back to warn.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, ok := logLevelMap[strings.ToLower(level)]
	if !ok {
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", format)
	}
	return slog.New(h), nil
}

// initLogging installs the logger for both the CLI and the engine.
func initLogging(w io.Writer, level, format string) error {
	l, err := newLogger(w, level, format)
	if err != nil {
		return err
	}
	slog.SetDefault(l)
	goslides.SetLogger(l)
	return nil
}

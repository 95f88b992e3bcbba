package config

import (
	"io"
	"log/slog"
)

var logLevelMapping = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Logger builds the process logger described by the log settings. Output
// goes to w, normally stderr so generated documents can be piped from
// stdout.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, ok := logLevelMapping[c.Log.Level]
	if !ok {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

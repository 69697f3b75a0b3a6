package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nstehr/tackle/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the process logger. With a log file configured, records
// go to both the console and a rotating file; the returned closer releases
// the file and is nil otherwise.
func newLogger(cfg config.LoggerConfig, console io.Writer) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		return nil, nil, fmt.Errorf("logger.level: %w", err)
	}

	out := console
	var sink io.Closer
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		out = io.MultiWriter(console, lj)
		sink = lj
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch cfg.Format {
	case "json":
		h = slog.NewJSONHandler(out, opts)
	default:
		h = slog.NewTextHandler(out, opts)
	}
	return slog.New(h), sink, nil
}

package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	Level  string
	Format string
	// File receives the logs instead of Output when set. os.DevNull
	// disables logging.
	File   string
	Output io.Writer
}

// New builds a slog.Logger from opts. Invalid settings fall back to their
// defaults and are reported through the returned logger.
func New(opts Options) *slog.Logger {
	var warnings []string

	var handlerOpts slog.HandlerOptions
	switch strings.ToLower(opts.Level) {
	case "":
	case "debug":
		handlerOpts.Level = slog.LevelDebug
	case "info":
		handlerOpts.Level = slog.LevelInfo
	case "warn":
		handlerOpts.Level = slog.LevelWarn
	case "error":
		handlerOpts.Level = slog.LevelError
	default:
		warnings = append(warnings, "could not parse logger level "+opts.Level)
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	switch opts.File {
	case "":
	case os.DevNull:
		return slog.New(slog.DiscardHandler)
	default:
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			warnings = append(warnings, "could not open logger output "+err.Error())
		} else {
			output = f
		}
	}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "json":
		handler = slog.NewJSONHandler(output, &handlerOpts)
	case "text", "":
		handler = slog.NewTextHandler(output, &handlerOpts)
	default:
		handler = slog.NewTextHandler(output, &handlerOpts)
		warnings = append(warnings, "could not parse logger format "+opts.Format)
	}

	logger := slog.New(handler)
	for _, w := range warnings {
		logger.Warn(w)
	}
	return logger
}

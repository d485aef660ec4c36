package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Dir is the directory holding the daily log files.
	Dir string
	// WriteToStderr mirrors every log line to stderr (default: true).
	// The bridge contract reserves stdout for the single JSON result, so
	// diagnostics go to stderr only.
	WriteToStderr bool
}

// DefaultConfig returns sensible defaults for bridge logging.
func DefaultConfig() Config {
	return Config{
		Level:         "debug",
		Dir:           DefaultLogDir(),
		WriteToStderr: true,
	}
}

// Setup initializes the daily log file and returns a cleanup function.
// The log file is truncated fresh at process start and receives a header
// line; the cleanup function flushes and closes it. Safe to call from every
// exit path.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	writer, err := NewDailyWriter(cfg.Dir)
	if err != nil {
		return nil, nil, err
	}

	var output io.Writer = writer
	if cfg.WriteToStderr {
		output = io.MultiWriter(writer, os.Stderr)
	}

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})

	logger := slog.New(handler)

	cleanup := func() {
		_ = writer.Sync()
		_ = writer.Close()
	}

	return logger, cleanup, nil
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

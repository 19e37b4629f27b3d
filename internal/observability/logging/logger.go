package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options control how the process-wide logger is built. The zero value
// writes JSON to stdout at info level.
type Options struct {
	Service string
	Level   string
	Writer  io.Writer
}

// New builds a JSON slog logger tagged with the service name so that api
// and worker lines can be told apart in a shared log stream.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	logger := slog.New(handler)
	if opts.Service != "" {
		logger = logger.With("service", opts.Service)
	}
	return logger
}

// ParseLevel maps a config string to a slog level. Unknown values fall
// back to info rather than failing startup.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

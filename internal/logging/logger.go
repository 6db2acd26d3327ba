package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup installs the global slog logger: JSON to stdout plus any extra
// handlers, such as the Kafka shipper.
func Setup(level string, extra ...slog.Handler) *slog.Logger {
	return SetupWriter(os.Stdout, level, extra...)
}

// SetupWriter is Setup with a custom primary output.
func SetupWriter(w io.Writer, level string, extra ...slog.Handler) *slog.Logger {
	handlers := []slog.Handler{
		slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}),
	}
	handlers = append(handlers, extra...)

	var handler slog.Handler = handlers[0]
	if len(handlers) > 1 {
		handler = NewMultiHandler(handlers...)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps debug|info|warn|error onto slog levels, defaulting to info.
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

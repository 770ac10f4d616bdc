package internal

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger creates the process logger writing to stdout.
// Dev uses a text handler at DEBUG, otherwise JSON at INFO.
func NewLogger(isDev bool) *slog.Logger {
	return newLogger(os.Stdout, isDev)
}

func newLogger(w io.Writer, isDev bool) *slog.Logger {
	var handler slog.Handler
	if isDev {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	return slog.New(handler).With("service", "salon-notifier")
}

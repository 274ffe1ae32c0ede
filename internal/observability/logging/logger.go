package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger builds the process-wide structured logger. Every record
// carries the emitting service name plus any base attributes handed in at
// startup (api and worker tag the active memory backend this way), so
// logs from both binaries can be mixed and filtered.
func NewJSONLogger(service, level string, base ...slog.Attr) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})

	attrs := make([]any, 0, 2+2*len(base))
	attrs = append(attrs, "service", service)
	for _, attr := range base {
		attrs = append(attrs, attr.Key, attr.Value)
	}
	return slog.New(handler).With(attrs...)
}

func parseLevel(level string) slog.Level {
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

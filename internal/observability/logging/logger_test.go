package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"Warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"  info ", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Errorf("parseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNewJSONLoggerLevelGate(t *testing.T) {
	logger := NewJSONLogger("vendormind-test", "warn")
	ctx := context.Background()

	if logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("info records should be suppressed at warn level")
	}
	if !logger.Enabled(ctx, slog.LevelError) {
		t.Error("error records should pass at warn level")
	}
}

func TestNewJSONLoggerBaseAttrs(t *testing.T) {
	logger := NewJSONLogger("vendormind-test", "info", slog.String("memory_backend", "file"))
	if logger == nil {
		t.Fatal("expected a logger")
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info records should pass at info level")
	}
}

package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs a JSON stdout logger as the slog default. Development
// environments log at DEBUG, everything else at INFO.
func Setup(env string) *slog.JSONHandler {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFor(env),
	})
	slog.SetDefault(slog.New(handler))
	return handler
}

func levelFor(env string) slog.Level {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

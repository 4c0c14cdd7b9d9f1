package sl

import (
	"io"
	"log/slog"
)

// Окружения, влияющие на формат логов.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// New создаёт логгер для окружения env: локально текст с debug,
// в dev и prod JSON для сборщика логов.
func New(env string, w io.Writer) *slog.Logger {
	switch env {
	case EnvDev:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case EnvProd:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

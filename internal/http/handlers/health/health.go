// Package health реализует HTTP-обработчик проверки готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
)

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler опрашивает зависимости сервиса.
type Handler struct {
	log    *slog.Logger
	checks map[string]Pinger
}

// New создает Handler. checks — именованные зависимости (база, redis).
func New(log *slog.Logger, checks map[string]Pinger) *Handler {
	return &Handler{
		log:    log,
		checks: checks,
	}
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	statuses := make(map[string]string, len(h.checks))
	healthy := true
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.log.Error("dependency is unavailable", slog.String("op", op), slog.String("dependency", name), sl.Err(err))
			statuses[name] = "unavailable"
			healthy = false
			continue
		}
		statuses[name] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	response.OK(w, r, status, statuses)
}

// Package get реализует HTTP-обработчик чтения фильма или сериала.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
	contservice "github.com/magabrotheeeer/streamflix/internal/services/content"
)

// Handler обрабатывает запросы на чтение контента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	Get(ctx context.Context, contentID int64) (*models.Content, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Фильм или сериал
// @Description У сериала возвращаются сезоны и эпизоды.
// @Tags Content
// @Produce json
// @Param id path int true "ID контента"
// @Success 200 {object} response.Response{data=models.Content}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /content/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := response.PathID(w, r, "id", "content")
	if !ok {
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, contservice.ErrContentNotFound) {
			response.Fail(w, r, http.StatusNotFound, "content not found")
			return
		}
		log.Error("failed to get content", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not get content")
		return
	}

	response.OK(w, r, http.StatusOK, c)
}

// Package remove реализует HTTP-обработчик удаления контента из каталога.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	contservice "github.com/magabrotheeeer/streamflix/internal/services/content"
)

// Handler обрабатывает удаление контента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	Delete(ctx context.Context, contentID int64) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить контент
// @Description Вместе с контентом удаляются записи списков и истории просмотров.
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID контента"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /content/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := response.PathID(w, r, "id", "content")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, contservice.ErrContentNotFound) {
			response.Fail(w, r, http.StatusNotFound, "content not found")
			return
		}
		log.Error("failed to delete content", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not delete content")
		return
	}

	response.OK(w, r, http.StatusOK, map[string]string{"message": "content deleted"})
}

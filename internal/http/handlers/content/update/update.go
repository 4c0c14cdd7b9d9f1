// Package update реализует HTTP-обработчик изменения контента каталога.
//
// Вид контента менять нельзя (409). Сезоны сериала этим запросом не меняются.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
	contservice "github.com/magabrotheeeer/streamflix/internal/services/content"
)

// Handler обрабатывает изменение контента.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	Update(ctx context.Context, contentID int64, req models.ContentRequest) (*models.Content, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить контент
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID контента"
// @Param request body models.ContentRequest true "Фильм или сериал"
// @Success 200 {object} response.Response{data=models.Content}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Смена вида контента"
// @Failure 422 {object} response.ErrorResponse
// @Router /content/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := response.PathID(w, r, "id", "content")
	if !ok {
		return
	}

	var req models.ContentRequest
	if !response.DecodeAndValidate(w, r, h.validate, &req) {
		return
	}

	c, err := h.service.Update(r.Context(), id, req)
	switch {
	case err == nil:
	case errors.Is(err, contservice.ErrContentNotFound):
		response.Fail(w, r, http.StatusNotFound, "content not found")
		return
	case errors.Is(err, contservice.ErrKindChange):
		response.Fail(w, r, http.StatusConflict, "content kind cannot be changed")
		return
	case errors.Is(err, contservice.ErrInvalidContent):
		response.Fail(w, r, http.StatusBadRequest, "invalid content")
		return
	default:
		log.Error("failed to update content", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not update content")
		return
	}

	log.Info("content updated", slog.Int64("content_id", c.ID))
	response.OK(w, r, http.StatusOK, c)
}

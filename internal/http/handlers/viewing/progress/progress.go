// Package progress реализует HTTP-обработчик сохранения позиции просмотра.
package progress

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
	viewservice "github.com/magabrotheeeer/streamflix/internal/services/viewing"
)

// Handler обрабатывает сохранение позиции.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики истории просмотров.
type Service interface {
	UpdateProgress(ctx context.Context, accountID, viewingID int64, req models.ProgressRequest) (*models.ViewingHistory, error)
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
// @Summary Сохранить позицию
// @Tags Viewing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID записи истории"
// @Param request body models.ProgressRequest true "Позиция"
// @Success 200 {object} response.Response{data=models.ViewingHistory}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /history/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.viewing.progress"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	accountID, ok := middlewarectx.AccountIDFrom(r.Context())
	if !ok {
		log.Error("account id not found in context")
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := response.PathID(w, r, "id", "viewing history")
	if !ok {
		return
	}

	var req models.ProgressRequest
	if !response.DecodeAndValidate(w, r, h.validate, &req) {
		return
	}

	v, err := h.service.UpdateProgress(r.Context(), accountID, id, req)
	if err != nil {
		if errors.Is(err, viewservice.ErrViewingNotFound) {
			response.Fail(w, r, http.StatusNotFound, "viewing history not found")
			return
		}
		log.Error("failed to update progress", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not update progress")
		return
	}

	response.OK(w, r, http.StatusOK, v)
}

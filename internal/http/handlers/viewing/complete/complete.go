// Package complete реализует HTTP-обработчик завершения просмотра.
package complete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
	viewservice "github.com/magabrotheeeer/streamflix/internal/services/viewing"
)

// Handler обрабатывает завершение просмотра.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики истории просмотров.
type Service interface {
	Complete(ctx context.Context, accountID, viewingID int64) (*models.ViewingHistory, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Завершить просмотр
// @Description Время окончания фиксируется при первом завершении.
// @Tags Viewing
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID записи истории"
// @Success 200 {object} response.Response{data=models.ViewingHistory}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /history/{id}/complete [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.viewing.complete"
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

	v, err := h.service.Complete(r.Context(), accountID, id)
	if err != nil {
		if errors.Is(err, viewservice.ErrViewingNotFound) {
			response.Fail(w, r, http.StatusNotFound, "viewing history not found")
			return
		}
		log.Error("failed to complete viewing", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not complete viewing")
		return
	}

	response.OK(w, r, http.StatusOK, v)
}

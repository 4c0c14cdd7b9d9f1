// Package history реализует HTTP-обработчик чтения истории просмотров профиля.
package history

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
	profservice "github.com/magabrotheeeer/streamflix/internal/services/profile"
)

// Handler обрабатывает чтение истории.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики истории просмотров.
type Service interface {
	History(ctx context.Context, accountID, profileID int64) ([]*models.ViewingHistory, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary История просмотров
// @Tags Viewing
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID профиля"
// @Success 200 {object} response.Response{data=[]models.ViewingHistory}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /profiles/{id}/history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.viewing.history"
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
	profileID, ok := response.PathID(w, r, "id", "profile")
	if !ok {
		return
	}

	history, err := h.service.History(r.Context(), accountID, profileID)
	if err != nil {
		if errors.Is(err, profservice.ErrProfileNotFound) {
			response.Fail(w, r, http.StatusNotFound, "profile not found")
			return
		}
		log.Error("failed to list viewing history", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not list viewing history")
		return
	}

	response.OK(w, r, http.StatusOK, history)
}

// Package resume реализует HTTP-обработчик продолжения просмотра:
// отдаёт последний незавершённый просмотр контента профилем.
package resume

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
	viewservice "github.com/magabrotheeeer/streamflix/internal/services/viewing"
)

// Handler обрабатывает запрос продолжения.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики истории просмотров.
type Service interface {
	Resume(ctx context.Context, accountID, profileID, contentID int64) (*models.ViewingHistory, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Продолжить просмотр
// @Tags Viewing
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID профиля"
// @Param contentID path int true "ID контента"
// @Success 200 {object} response.Response{data=models.ViewingHistory}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Нет профиля или незавершённого просмотра"
// @Router /profiles/{id}/history/resume/{contentID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.viewing.resume"
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
	contentID, ok := response.PathID(w, r, "contentID", "content")
	if !ok {
		return
	}

	v, err := h.service.Resume(r.Context(), accountID, profileID, contentID)
	switch {
	case err == nil:
	case errors.Is(err, profservice.ErrProfileNotFound):
		response.Fail(w, r, http.StatusNotFound, "profile not found")
		return
	case errors.Is(err, viewservice.ErrViewingNotFound):
		response.Fail(w, r, http.StatusNotFound, "nothing to resume")
		return
	default:
		log.Error("failed to resume viewing", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not resume viewing")
		return
	}

	response.OK(w, r, http.StatusOK, v)
}

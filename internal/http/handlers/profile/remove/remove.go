// Package remove реализует HTTP-обработчик удаления профиля.
// Вместе с профилем удаляются его предпочтения, список и история просмотров.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	profservice "github.com/magabrotheeeer/streamflix/internal/services/profile"
)

// Handler обрабатывает удаление профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики профилей.
type Service interface {
	Delete(ctx context.Context, accountID, profileID int64) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить профиль
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID профиля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /profiles/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.remove"
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
	id, ok := response.PathID(w, r, "id", "profile")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), accountID, id); err != nil {
		if errors.Is(err, profservice.ErrProfileNotFound) {
			response.Fail(w, r, http.StatusNotFound, "profile not found")
			return
		}
		log.Error("failed to delete profile", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not delete profile")
		return
	}

	log.Info("profile deleted", slog.Int64("profile_id", id))
	response.OK(w, r, http.StatusOK, map[string]string{"message": "profile deleted"})
}

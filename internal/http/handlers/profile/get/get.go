// Package get реализует HTTP-обработчик чтения профиля.
package get

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

// Handler обрабатывает запросы на чтение профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики профилей.
type Service interface {
	Get(ctx context.Context, accountID, profileID int64) (*models.Profile, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль
// @Description Возвращает профиль вместе с предпочтениями. Чужой профиль — 404.
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID профиля"
// @Success 200 {object} response.Response{data=models.Profile}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /profiles/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.get"
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

	p, err := h.service.Get(r.Context(), accountID, id)
	if err != nil {
		if errors.Is(err, profservice.ErrProfileNotFound) {
			response.Fail(w, r, http.StatusNotFound, "profile not found")
			return
		}
		log.Error("failed to get profile", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not get profile")
		return
	}

	response.OK(w, r, http.StatusOK, p)
}

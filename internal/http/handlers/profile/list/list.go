// Package list реализует HTTP-обработчик списка профилей текущего аккаунта.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
)

// Handler обрабатывает запросы на список профилей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики профилей.
type Service interface {
	List(ctx context.Context, accountID int64) ([]*models.Profile, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профили аккаунта
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]models.Profile}
// @Failure 401 {object} response.ErrorResponse
// @Router /profiles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.list"
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

	profiles, err := h.service.List(r.Context(), accountID)
	if err != nil {
		log.Error("failed to list profiles", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not list profiles")
		return
	}

	response.OK(w, r, http.StatusOK, profiles)
}

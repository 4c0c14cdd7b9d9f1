// Package update реализует HTTP-обработчик изменения профиля.
package update

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
	profservice "github.com/magabrotheeeer/streamflix/internal/services/profile"
)

// Handler обрабатывает изменение профиля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики профилей.
type Service interface {
	Update(ctx context.Context, accountID, profileID int64, req models.ProfileRequest) (*models.Profile, error)
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
// @Summary Изменить профиль
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID профиля"
// @Param request body models.ProfileRequest true "Профиль"
// @Success 200 {object} response.Response{data=models.Profile}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /profiles/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.update"
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

	var req models.ProfileRequest
	if !response.DecodeAndValidate(w, r, h.validate, &req) {
		return
	}

	p, err := h.service.Update(r.Context(), accountID, id, req)
	if err != nil {
		if errors.Is(err, profservice.ErrProfileNotFound) {
			response.Fail(w, r, http.StatusNotFound, "profile not found")
			return
		}
		log.Error("failed to update profile", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not update profile")
		return
	}

	response.OK(w, r, http.StatusOK, p)
}

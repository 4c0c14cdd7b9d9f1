// Package create реализует HTTP-обработчик создания профиля в аккаунте.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
)

// Handler обрабатывает создание профиля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики профилей.
type Service interface {
	Create(ctx context.Context, accountID int64, req models.ProfileRequest) (*models.Profile, error)
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
// @Summary Создать профиль
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ProfileRequest true "Профиль"
// @Success 201 {object} response.Response{data=models.Profile}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /profiles [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.create"
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

	var req models.ProfileRequest
	if !response.DecodeAndValidate(w, r, h.validate, &req) {
		return
	}

	p, err := h.service.Create(r.Context(), accountID, req)
	if err != nil {
		log.Error("failed to create profile", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not create profile")
		return
	}

	log.Info("profile created", slog.Int64("profile_id", p.ID))
	response.OK(w, r, http.StatusCreated, p)
}

// Package resetpassword реализует HTTP-обработчик установки нового пароля по коду сброса.
package resetpassword

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
	authservice "github.com/magabrotheeeer/streamflix/internal/services/auth"
)

// Handler обрабатывает сброс пароля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс сброса пароля.
type Service interface {
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
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
// @Summary Сбросить пароль
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body models.ResetPasswordRequest true "Почта, код и новый пароль"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /accounts/password-reset [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.resetpassword"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ResetPasswordRequest
	if !response.DecodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		if errors.Is(err, authservice.ErrInvalidToken) {
			response.Fail(w, r, http.StatusBadRequest, "invalid or expired reset token")
			return
		}
		log.Error("failed to reset password", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not reset password")
		return
	}

	response.OK(w, r, http.StatusOK, map[string]string{"message": "password updated"})
}

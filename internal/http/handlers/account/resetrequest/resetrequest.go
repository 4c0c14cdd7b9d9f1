// Package resetrequest реализует HTTP-обработчик запроса на сброс пароля.
//
// Ответ одинаков для известной и неизвестной почты.
package resetrequest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
)

// Handler обрабатывает запрос сброса пароля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс запроса сброса.
type Service interface {
	RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) error
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
// @Summary Запросить сброс пароля
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body models.PasswordResetRequest true "Почта"
// @Success 202 {object} response.Response
// @Failure 422 {object} response.ErrorResponse
// @Router /accounts/password-reset/request [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.resetrequest"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.PasswordResetRequest
	if !response.DecodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req); err != nil {
		log.Error("failed to request password reset", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not request password reset")
		return
	}

	response.OK(w, r, http.StatusAccepted, map[string]string{
		"message": "if the account exists, a reset code has been sent",
	})
}

// Package login реализует HTTP-обработчик входа по почте и паролю.
package login

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

// Handler обрабатывает вход.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс входа.
type Service interface {
	Login(ctx context.Context, req models.LoginRequest) (*authservice.LoginResult, error)
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
// @Summary Вход
// @Description Возвращает JWT. После нескольких неудачных попыток вход временно блокируется.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Почта и пароль"
// @Success 200 {object} response.Response{data=services.LoginResult}
// @Failure 401 {object} response.ErrorResponse "Неверные учётные данные"
// @Failure 403 {object} response.ErrorResponse "Почта не подтверждена или вход заблокирован"
// @Failure 422 {object} response.ErrorResponse
// @Router /accounts/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.LoginRequest
	if !response.DecodeAndValidate(w, r, h.validate, &req) {
		return
	}

	res, err := h.service.Login(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, authservice.ErrInvalidCredentials):
		response.Fail(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	case errors.Is(err, authservice.ErrNotVerified):
		response.Fail(w, r, http.StatusForbidden, "account not verified")
		return
	case errors.Is(err, authservice.ErrAccountLocked):
		response.Fail(w, r, http.StatusForbidden, "account temporarily locked")
		return
	case errors.Is(err, authservice.ErrAccountInactive):
		response.Fail(w, r, http.StatusForbidden, "account is disabled")
		return
	default:
		log.Error("failed to login", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not login")
		return
	}

	response.OK(w, r, http.StatusOK, res)
}

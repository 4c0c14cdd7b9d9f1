// Package register реализует HTTP-обработчик регистрации аккаунта.
//
// После регистрации аккаунт не подтверждён: код подтверждения уходит на почту.
package register

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

// Handler обрабатывает регистрацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс регистрации.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AccountInfo, error)
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
// @Summary Регистрация
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Почта и пароль"
// @Success 201 {object} response.Response{data=models.AccountInfo}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Почта уже занята"
// @Failure 422 {object} response.ErrorResponse
// @Router /accounts/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.RegisterRequest
	if !response.DecodeAndValidate(w, r, h.validate, &req) {
		return
	}

	info, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, authservice.ErrEmailTaken) {
			response.Fail(w, r, http.StatusConflict, "email already in use")
			return
		}
		log.Error("failed to register account", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not register account")
		return
	}

	log.Info("account registered", slog.Int64("account_id", info.ID))
	response.OK(w, r, http.StatusCreated, info)
}

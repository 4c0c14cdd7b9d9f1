// Package verify реализует HTTP-обработчик подтверждения почты.
package verify

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

// Handler обрабатывает подтверждение почты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс подтверждения.
type Service interface {
	Verify(ctx context.Context, req models.VerifyRequest) error
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
// @Summary Подтверждение почты
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body models.VerifyRequest true "Почта и код"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /accounts/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.verify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.VerifyRequest
	if !response.DecodeAndValidate(w, r, h.validate, &req) {
		return
	}

	err := h.service.Verify(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, authservice.ErrAccountNotFound):
		response.Fail(w, r, http.StatusNotFound, "account not found")
		return
	case errors.Is(err, authservice.ErrAlreadyVerified):
		response.Fail(w, r, http.StatusBadRequest, "account already verified")
		return
	case errors.Is(err, authservice.ErrInvalidToken):
		response.Fail(w, r, http.StatusBadRequest, "invalid or expired verification token")
		return
	default:
		log.Error("failed to verify account", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not verify account")
		return
	}

	response.OK(w, r, http.StatusOK, map[string]string{"message": "account verified"})
}

// Package logout реализует HTTP-обработчик выхода: текущий токен отзывается.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/jwt"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
)

// Handler обрабатывает выход.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс выхода.
type Service interface {
	Logout(ctx context.Context, claims *jwt.CustomClaims) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выход
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /accounts/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	claims, ok := middlewarectx.ClaimsFrom(r.Context())
	if !ok {
		log.Error("claims not found in context")
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.service.Logout(r.Context(), claims); err != nil {
		log.Error("failed to logout", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not logout")
		return
	}

	response.OK(w, r, http.StatusOK, map[string]string{"message": "logged out"})
}

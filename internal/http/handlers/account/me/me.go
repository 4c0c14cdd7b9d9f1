// Package me реализует HTTP-обработчик сведений о текущем аккаунте.
package me

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
	authservice "github.com/magabrotheeeer/streamflix/internal/services/auth"
)

// Handler отдаёт публичные данные текущего аккаунта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения аккаунта.
type Service interface {
	GetAccountInfo(ctx context.Context, accountID int64) (*models.AccountInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Текущий аккаунт
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.AccountInfo}
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /accounts/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.me"
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

	info, err := h.service.GetAccountInfo(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, authservice.ErrAccountNotFound) {
			response.Fail(w, r, http.StatusNotFound, "account not found")
			return
		}
		log.Error("failed to get account", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not get account")
		return
	}

	response.OK(w, r, http.StatusOK, info)
}

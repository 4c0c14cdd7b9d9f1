// Package get реализует HTTP-обработчик получения активной подписки текущего аккаунта.
package get

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
	subservice "github.com/magabrotheeeer/streamflix/internal/services/subscription"
)

// Handler обрабатывает запросы на чтение активной подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения подписки.
type Service interface {
	GetActive(ctx context.Context, accountID int64) (*models.Subscription, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Активная подписка
// @Description Возвращает активную подписку текущего аккаунта.
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.Subscription}
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Нет активной подписки"
// @Router /subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.get"
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

	sub, err := h.service.GetActive(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, subservice.ErrSubscriptionNotFound) {
			response.Fail(w, r, http.StatusNotFound, "active subscription not found")
			return
		}
		log.Error("failed to get subscription", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not get subscription")
		return
	}

	response.OK(w, r, http.StatusOK, sub)
}

// Package cancel реализует HTTP-обработчик отмены подписки.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
	subservice "github.com/magabrotheeeer/streamflix/internal/services/subscription"
)

// Handler обрабатывает запрос над подпиской по её ID.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики.
type Service interface {
	Cancel(ctx context.Context, accountID, subscriptionID int64) (*models.Subscription, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отменить подписку
// @Description Отменяет активную подписку. Запись не удаляется.
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response{data=models.Subscription}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptions/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"
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

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(w, r, http.StatusBadRequest, "invalid subscription id")
		return
	}

	sub, err := h.service.Cancel(r.Context(), accountID, id)
	if err != nil {
		if errors.Is(err, subservice.ErrSubscriptionNotFound) {
			response.Fail(w, r, http.StatusNotFound, "subscription not found")
			return
		}
		log.Error("failed to cancel subscription", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not cancel subscription")
		return
	}

	log.Info("subscription cancelled", slog.Int64("id", sub.ID))
	response.OK(w, r, http.StatusOK, sub)
}

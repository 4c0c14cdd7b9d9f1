// Package change реализует HTTP-обработчик смены тарифа.
package change

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
	subservice "github.com/magabrotheeeer/streamflix/internal/services/subscription"
)

// Handler обрабатывает смену тарифа активной подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены тарифа.
type Service interface {
	Change(ctx context.Context, accountID, subscriptionID int64, req models.ChangeSubscriptionRequest) (*models.Subscription, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сменить тариф
// @Description Меняет тариф активной подписки. Пробный период при этом заканчивается.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID подписки"
// @Param request body models.ChangeSubscriptionRequest true "Новый тариф"
// @Success 200 {object} response.Response{data=models.Subscription}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /subscriptions/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.change"
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
		log.Info("invalid subscription id", slog.String("id", chi.URLParam(r, "id")))
		response.Fail(w, r, http.StatusBadRequest, "invalid subscription id")
		return
	}

	var req models.ChangeSubscriptionRequest
	if !response.DecodeAndValidate(w, r, h.validate, &req) {
		return
	}

	sub, err := h.service.Change(r.Context(), accountID, id, req)
	switch {
	case err == nil:
	case errors.Is(err, subservice.ErrInvalidPlan):
		response.Fail(w, r, http.StatusBadRequest, "invalid subscription type")
		return
	case errors.Is(err, subservice.ErrSubscriptionNotFound):
		response.Fail(w, r, http.StatusNotFound, "subscription not found")
		return
	default:
		log.Error("failed to change subscription", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not change subscription")
		return
	}

	log.Info("subscription plan changed", slog.Int64("id", sub.ID), slog.String("plan", string(sub.Type)))
	response.OK(w, r, http.StatusOK, sub)
}

// Package create реализует HTTP-обработчик оформления подписки.
//
// Новая подписка всегда начинается с пробного периода. Если у аккаунта уже
// есть активная подписка, возвращается 409 Conflict.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
	subservice "github.com/magabrotheeeer/streamflix/internal/services/subscription"
)

// Handler управляет HTTP-запросами на создание подписки.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики подписок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания подписки.
type Service interface {
	Create(ctx context.Context, accountID int64, req models.CreateSubscriptionRequest) (*models.Subscription, error)
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
// @Summary Оформить подписку
// @Description Создает подписку с пробным периодом для текущего аккаунта.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateSubscriptionRequest true "Тариф и описание"
// @Success 201 {object} response.Response{data=models.Subscription}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неизвестный тариф"
// @Failure 401 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Уже есть активная подписка"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"
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

	var req models.CreateSubscriptionRequest
	if !response.DecodeAndValidate(w, r, h.validate, &req) {
		log.Info("invalid request body")
		return
	}

	sub, err := h.service.Create(r.Context(), accountID, req)
	switch {
	case err == nil:
	case errors.Is(err, subservice.ErrInvalidPlan):
		response.Fail(w, r, http.StatusBadRequest, "invalid subscription type")
		return
	case errors.Is(err, subservice.ErrActiveSubscriptionExists):
		response.Fail(w, r, http.StatusConflict, "account already has an active subscription")
		return
	default:
		log.Error("failed to create subscription", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not create subscription")
		return
	}

	log.Info("subscription created", slog.Int64("id", sub.ID))
	response.OK(w, r, http.StatusCreated, sub)
}

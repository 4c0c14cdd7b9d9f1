// Package discount реализует HTTP-обработчик сведений о реферальной скидке.
package discount

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
	refservice "github.com/magabrotheeeer/streamflix/internal/services/referral"
)

// Handler отдаёт последнюю скидку текущего аккаунта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики скидок.
type Service interface {
	GetDiscountInfo(ctx context.Context, accountID int64) (*models.Discount, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Реферальная скидка
// @Tags Referrals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.Discount}
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Скидки нет"
// @Router /referrals/discount [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.referral.discount"
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

	d, err := h.service.GetDiscountInfo(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, refservice.ErrDiscountNotFound) {
			response.Fail(w, r, http.StatusNotFound, "discount not found")
			return
		}
		log.Error("failed to get discount", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not get discount")
		return
	}

	response.OK(w, r, http.StatusOK, d)
}

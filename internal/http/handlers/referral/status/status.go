// Package status реализует HTTP-обработчик статуса приглашения.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
)

// Handler отдаёт статус приглашения по коду. Неизвестный код — не ошибка.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики приглашений.
type Service interface {
	GetReferralStatus(ctx context.Context, code string) (string, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статус приглашения
// @Tags Referrals
// @Produce json
// @Param code path string true "Код приглашения"
// @Success 200 {object} response.Response{data=map[string]string}
// @Router /referrals/{code}/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.referral.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	code := chi.URLParam(r, "code")
	st, err := h.service.GetReferralStatus(r.Context(), code)
	if err != nil {
		log.Error("failed to get referral status", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not get referral status")
		return
	}

	response.OK(w, r, http.StatusOK, map[string]string{
		"invitation_code": code,
		"status":          st,
	})
}

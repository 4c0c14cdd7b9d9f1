// Package invite реализует HTTP-обработчик создания реферального приглашения.
package invite

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
)

// Handler создаёт приглашение от имени текущего аккаунта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики приглашений.
type Service interface {
	CreateInvitation(ctx context.Context, referrerID int64) (*models.Referral, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создать приглашение
// @Description Возвращает новое приглашение с уникальным кодом.
// @Tags Referrals
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response{data=models.Referral}
// @Failure 401 {object} response.ErrorResponse
// @Router /referrals [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.referral.invite"
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

	ref, err := h.service.CreateInvitation(r.Context(), accountID)
	if err != nil {
		log.Error("failed to create invitation", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not create invitation")
		return
	}

	log.Info("invitation created", slog.Int64("referral_id", ref.ID))
	response.OK(w, r, http.StatusCreated, ref)
}

// Package accept реализует HTTP-обработчик принятия реферального приглашения.
//
// Приглашение принимается не более одного раза. При принятии активные подписки
// обоих участников получают скидку в одной транзакции.
package accept

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
	refservice "github.com/magabrotheeeer/streamflix/internal/services/referral"
)

// Handler обрабатывает принятие приглашения текущим аккаунтом.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики приглашений.
type Service interface {
	AcceptInvitation(ctx context.Context, code string, referredID int64) (*models.Referral, error)
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
// @Summary Принять приглашение
// @Tags Referrals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AcceptInvitationRequest true "Код приглашения"
// @Success 200 {object} response.Response{data=models.Referral}
// @Failure 400 {object} response.ErrorResponse "Неверный код, приглашение уже принято или своё приглашение"
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /referrals/accept [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.referral.accept"
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

	var req models.AcceptInvitationRequest
	if !response.DecodeAndValidate(w, r, h.validate, &req) {
		return
	}

	ref, err := h.service.AcceptInvitation(r.Context(), req.InvitationCode, accountID)
	switch {
	case err == nil:
	case errors.Is(err, refservice.ErrInvalidCode):
		response.Fail(w, r, http.StatusBadRequest, "invalid invitation code")
		return
	case errors.Is(err, refservice.ErrAlreadyAccepted):
		response.Fail(w, r, http.StatusBadRequest, "invitation already accepted")
		return
	case errors.Is(err, refservice.ErrSelfReferral):
		response.Fail(w, r, http.StatusBadRequest, "cannot accept own invitation")
		return
	default:
		log.Error("failed to accept invitation", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not accept invitation")
		return
	}

	log.Info("invitation accepted", slog.Int64("referral_id", ref.ID))
	response.OK(w, r, http.StatusOK, ref)
}

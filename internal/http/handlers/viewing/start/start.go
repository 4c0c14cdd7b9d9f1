// Package start реализует HTTP-обработчик начала просмотра.
//
// Для сериала можно указать эпизод; он должен принадлежать этому сериалу.
package start

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
	profservice "github.com/magabrotheeeer/streamflix/internal/services/profile"
	viewservice "github.com/magabrotheeeer/streamflix/internal/services/viewing"
)

// Handler обрабатывает начало просмотра.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики истории просмотров.
type Service interface {
	Start(ctx context.Context, accountID, profileID int64, req models.StartViewingRequest) (*models.ViewingHistory, error)
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
// @Summary Начать просмотр
// @Tags Viewing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID профиля"
// @Param request body models.StartViewingRequest true "Контент и эпизод"
// @Success 201 {object} response.Response{data=models.ViewingHistory}
// @Failure 400 {object} response.ErrorResponse "Эпизод не принадлежит контенту"
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /profiles/{id}/history [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.viewing.start"
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
	profileID, ok := response.PathID(w, r, "id", "profile")
	if !ok {
		return
	}

	var req models.StartViewingRequest
	if !response.DecodeAndValidate(w, r, h.validate, &req) {
		return
	}

	v, err := h.service.Start(r.Context(), accountID, profileID, req)
	switch {
	case err == nil:
	case errors.Is(err, profservice.ErrProfileNotFound):
		response.Fail(w, r, http.StatusNotFound, "profile not found")
		return
	case errors.Is(err, viewservice.ErrContentNotFound):
		response.Fail(w, r, http.StatusNotFound, "content not found")
		return
	case errors.Is(err, viewservice.ErrInvalidEpisode):
		response.Fail(w, r, http.StatusBadRequest, "episode does not belong to content")
		return
	default:
		log.Error("failed to start viewing", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not start viewing")
		return
	}

	response.OK(w, r, http.StatusCreated, v)
}

// Package add реализует HTTP-обработчик добавления контента в список профиля.
package add

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	profservice "github.com/magabrotheeeer/streamflix/internal/services/profile"
	wlservice "github.com/magabrotheeeer/streamflix/internal/services/watchlist"
)

// Handler обрабатывает добавление в список.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списков.
type Service interface {
	Add(ctx context.Context, accountID, profileID, contentID int64) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Добавить в список
// @Tags Watchlist
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID профиля"
// @Param contentID path int true "ID контента"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Нет профиля или контента"
// @Failure 409 {object} response.ErrorResponse "Уже в списке"
// @Router /profiles/{id}/watchlist/{contentID} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.watchlist.add"
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
	contentID, ok := response.PathID(w, r, "contentID", "content")
	if !ok {
		return
	}

	err := h.service.Add(r.Context(), accountID, profileID, contentID)
	switch {
	case err == nil:
	case errors.Is(err, profservice.ErrProfileNotFound):
		response.Fail(w, r, http.StatusNotFound, "profile not found")
		return
	case errors.Is(err, wlservice.ErrContentNotFound):
		response.Fail(w, r, http.StatusNotFound, "content not found")
		return
	case errors.Is(err, wlservice.ErrAlreadyInWatchlist):
		response.Fail(w, r, http.StatusConflict, "content already in watchlist")
		return
	default:
		log.Error("failed to add to watchlist", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not add to watchlist")
		return
	}

	response.OK(w, r, http.StatusCreated, map[string]string{"message": "added to watchlist"})
}

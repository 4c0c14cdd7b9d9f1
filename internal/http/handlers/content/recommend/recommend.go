// Package recommend реализует HTTP-обработчик персональной подборки контента
// для профиля по его предпочтениям.
package recommend

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
	profservice "github.com/magabrotheeeer/streamflix/internal/services/profile"
)

// Handler обрабатывает запросы подборки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс персональной подборки.
type Service interface {
	Personalized(ctx context.Context, accountID, profileID int64, kind models.ContentKind) ([]*models.Content, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подборка для профиля
// @Description Фильтрует каталог по виду контента, возрастному рейтингу, жанрам и нежелательным предупреждениям профиля.
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID профиля"
// @Param kind query string false "movie или series"
// @Success 200 {object} response.Response{data=[]models.Content}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /profiles/{id}/recommendations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.recommend"
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

	var kind models.ContentKind
	if raw := r.URL.Query().Get("kind"); raw != "" {
		k, err := models.ParseContentKind(raw)
		if err != nil {
			response.Fail(w, r, http.StatusBadRequest, "invalid content kind")
			return
		}
		kind = k
	}

	contents, err := h.service.Personalized(r.Context(), accountID, profileID, kind)
	if err != nil {
		if errors.Is(err, profservice.ErrProfileNotFound) {
			response.Fail(w, r, http.StatusNotFound, "profile not found")
			return
		}
		log.Error("failed to build recommendations", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not build recommendations")
		return
	}

	response.OK(w, r, http.StatusOK, contents)
}

// Package list реализует HTTP-обработчик просмотра каталога.
//
// Поддерживаются фильтры kind (movie или series), title и genre.
// Название и жанр сравниваются целиком без учёта регистра.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
)

// Handler обрабатывает запросы к каталогу.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	List(ctx context.Context, f models.ContentFilter) ([]*models.Content, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Каталог
// @Tags Content
// @Produce json
// @Param kind query string false "movie или series"
// @Param title query string false "Название"
// @Param genre query string false "Жанр"
// @Success 200 {object} response.Response{data=[]models.Content}
// @Failure 400 {object} response.ErrorResponse
// @Router /content [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	f := models.ContentFilter{Title: q.Get("title"), Genre: q.Get("genre")}
	if raw := q.Get("kind"); raw != "" {
		kind, err := models.ParseContentKind(raw)
		if err != nil {
			response.Fail(w, r, http.StatusBadRequest, "invalid content kind")
			return
		}
		f.Kind = kind
	}

	contents, err := h.service.List(r.Context(), f)
	if err != nil {
		log.Error("failed to list content", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not list content")
		return
	}

	response.OK(w, r, http.StatusOK, contents)
}

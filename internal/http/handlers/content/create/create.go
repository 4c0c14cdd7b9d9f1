// Package create реализует HTTP-обработчик добавления контента в каталог.
//
// Доступен только администраторам каталога. Сериал создаётся вместе
// с сезонами и эпизодами из тела запроса.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
	contservice "github.com/magabrotheeeer/streamflix/internal/services/content"
)

// Handler обрабатывает добавление контента.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	Create(ctx context.Context, req models.ContentRequest) (*models.Content, error)
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
// @Summary Добавить контент
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ContentRequest true "Фильм или сериал"
// @Success 201 {object} response.Response{data=models.Content}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /content [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ContentRequest
	if !response.DecodeAndValidate(w, r, h.validate, &req) {
		return
	}

	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, contservice.ErrInvalidContent) {
			response.Fail(w, r, http.StatusBadRequest, "invalid content")
			return
		}
		log.Error("failed to create content", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not create content")
		return
	}

	response.OK(w, r, http.StatusCreated, c)
}

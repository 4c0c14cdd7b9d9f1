// Package plans реализует HTTP-обработчик прайса тарифов.
package plans

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/models"
)

// Handler отдаёт список тарифов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает источник прайса.
type Service interface {
	ListPlans() []models.Plan
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список тарифов
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Plan}
// @Router /subscriptions/plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response.OK(w, r, http.StatusOK, h.service.ListPlans())
}

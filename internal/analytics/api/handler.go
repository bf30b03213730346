package analytics_api

import (
	"fmt"
	"net/http"

	"ms-events/internal/analytics"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/utils"

	"github.com/go-chi/chi/v5"
)

// Handler handles analytics HTTP endpoints
type Handler struct {
	Service *analytics.Service
	Logger  *logger.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(service *analytics.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// RegisterRoutes registers the analytics routes on a chi router. Callers
// guard the group with admin authorization.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Post("/events/batch", h.GetBatchEventSales)
		r.Get("/events/{eventId}", h.GetEventSales)
	})
}

func (h *Handler) GetEventSales(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	result, err := h.Service.EventSales(r.Context(), eventID)
	if err != nil {
		h.Logger.Warn("ANALYTICS", fmt.Sprintf("Event sales for %s: %v", eventID, err))
		utils.WriteError(w, err, "failed to get event analytics")
		return
	}
	utils.WriteSuccess(w, result, "Success get event analytics")
}

func (h *Handler) GetBatchEventSales(w http.ResponseWriter, r *http.Request) {
	var req models.BatchSalesRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to get batch analytics")
		return
	}

	result, err := h.Service.BatchEventSales(r.Context(), req)
	if err != nil {
		h.Logger.Warn("ANALYTICS", fmt.Sprintf("Batch sales: %v", err))
		utils.WriteError(w, err, "failed to get batch analytics")
		return
	}
	utils.WriteSuccess(w, result, "Success get batch analytics")
}

package ticket_api

import (
	"fmt"
	"net/http"

	"ms-events/internal/logger"
	"ms-events/internal/models"
	tickets "ms-events/internal/tickets/service"
	"ms-events/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	TicketService *tickets.TicketService
	Logger        *logger.Logger
}

func NewHandler(ticketService *tickets.TicketService, log *logger.Logger) *Handler {
	return &Handler{TicketService: ticketService, Logger: log}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.TicketRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to create ticket")
		return
	}

	result, err := h.TicketService.Create(r.Context(), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("create ticket: %v", err))
		utils.WriteError(w, err, "failed to create ticket")
		return
	}
	h.Logger.Info("API", fmt.Sprintf("ticket %s created for event %s with %d seats", result.ID, result.EventID, result.Quantity))
	utils.WriteSuccess(w, result, "Success create ticket")
}

func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	filter := models.TicketFilter{PageQuery: utils.ParsePageQuery(r)}

	result, pagination, err := h.TicketService.FindAll(r.Context(), filter)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("list tickets: %v", err))
		utils.WriteError(w, err, "failed to find all ticket")
		return
	}
	utils.WritePaginated(w, result, pagination, "Success find all ticket")
}

func (h *Handler) FindAllByEvent(w http.ResponseWriter, r *http.Request) {
	result, pagination, err := h.TicketService.FindAllByEvent(r.Context(), chi.URLParam(r, "eventId"), utils.ParsePageQuery(r))
	if err != nil {
		utils.WriteError(w, err, "failed to find ticket by event")
		return
	}
	utils.WritePaginated(w, result, pagination, "Success find all ticket by event")
}

func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	result, err := h.TicketService.FindOne(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err, "failed to find one ticket")
		return
	}
	utils.WriteSuccess(w, result, "Success find one ticket")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.TicketRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to update ticket")
		return
	}

	result, err := h.TicketService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		utils.WriteError(w, err, "failed to update ticket")
		return
	}
	utils.WriteSuccess(w, result, "Success update ticket")
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	result, err := h.TicketService.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err, "failed to remove ticket")
		return
	}
	h.Logger.Info("API", fmt.Sprintf("ticket %s removed", result.ID))
	utils.WriteSuccess(w, result, "Success remove ticket")
}

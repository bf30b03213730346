package event_api

import (
	"fmt"
	"net/http"

	"ms-events/internal/auth"
	"ms-events/internal/events"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	EventService *events.EventService
	Logger       *logger.Logger
}

func NewHandler(service *events.EventService, log *logger.Logger) *Handler {
	return &Handler{EventService: service, Logger: log}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.EventRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to create event")
		return
	}

	result, err := h.EventService.Create(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("create event: %v", err))
		utils.WriteError(w, err, "failed to create event")
		return
	}
	h.Logger.Info("API", fmt.Sprintf("event %s created with slug %s", result.ID, result.Slug))
	utils.WriteSuccess(w, result, "Success create event")
}

// FindAll accepts page, limit, search, category, isPublish, isOnline and isFeatured.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	filter := models.EventFilter{
		PageQuery:  utils.ParsePageQuery(r),
		CategoryID: r.URL.Query().Get("category"),
		IsPublish:  utils.QueryBool(r, "isPublish"),
		IsOnline:   utils.QueryBool(r, "isOnline"),
		IsFeatured: utils.QueryBool(r, "isFeatured"),
	}

	result, pagination, err := h.EventService.FindAll(r.Context(), filter)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("list events: %v", err))
		utils.WriteError(w, err, "failed to find all event")
		return
	}
	utils.WritePaginated(w, result, pagination, "Success find all events")
}

func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	result, err := h.EventService.FindOne(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err, "failed to find one event")
		return
	}
	utils.WriteSuccess(w, result, "Success find one event")
}

func (h *Handler) FindOneBySlug(w http.ResponseWriter, r *http.Request) {
	result, err := h.EventService.FindOneBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		utils.WriteError(w, err, "failed to find one event by slug")
		return
	}
	utils.WriteSuccess(w, result, "Success find one event by slug")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.EventRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to update event")
		return
	}

	result, err := h.EventService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		utils.WriteError(w, err, "failed to update event")
		return
	}
	utils.WriteSuccess(w, result, "Success update event")
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	result, err := h.EventService.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err, "failed to remove event")
		return
	}
	h.Logger.Info("API", fmt.Sprintf("event %s removed", result.ID))
	utils.WriteSuccess(w, result, "Success remove event")
}

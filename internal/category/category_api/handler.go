package category_api

import (
	"fmt"
	"net/http"

	"ms-events/internal/category"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	CategoryService *category.CategoryService
	Logger          *logger.Logger
}

func NewHandler(service *category.CategoryService, log *logger.Logger) *Handler {
	return &Handler{CategoryService: service, Logger: log}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to create category")
		return
	}

	result, err := h.CategoryService.Create(r.Context(), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("create category: %v", err))
		utils.WriteError(w, err, "failed to create category")
		return
	}
	utils.WriteSuccess(w, result, "Success create category")
}

func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	filter := models.CategoryFilter{PageQuery: utils.ParsePageQuery(r)}

	result, pagination, err := h.CategoryService.FindAll(r.Context(), filter)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("list categories: %v", err))
		utils.WriteError(w, err, "failed to find all category")
		return
	}
	utils.WritePaginated(w, result, pagination, "Success find all category")
}

func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	result, err := h.CategoryService.FindOne(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err, "failed to find one category")
		return
	}
	utils.WriteSuccess(w, result, "Success find one category")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to update category")
		return
	}

	result, err := h.CategoryService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		utils.WriteError(w, err, "failed to update category")
		return
	}
	utils.WriteSuccess(w, result, "Success update category")
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	result, err := h.CategoryService.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err, "failed to remove category")
		return
	}
	h.Logger.Info("API", fmt.Sprintf("category %s removed", result.ID))
	utils.WriteSuccess(w, result, "Success remove category")
}

package banner_api

import (
	"net/http"

	"ms-events/internal/banner"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	BannerService *banner.BannerService
	Logger        *logger.Logger
}

func NewHandler(service *banner.BannerService, log *logger.Logger) *Handler {
	return &Handler{BannerService: service, Logger: log}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.BannerRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to create banner")
		return
	}

	result, err := h.BannerService.Create(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err, "failed to create banner")
		return
	}
	utils.WriteSuccess(w, result, "Success create banner")
}

func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	filter := models.BannerFilter{
		PageQuery: utils.ParsePageQuery(r),
		IsShow:    utils.QueryBool(r, "isShow"),
	}

	result, pagination, err := h.BannerService.FindAll(r.Context(), filter)
	if err != nil {
		h.Logger.Error("API", "list banners: "+err.Error())
		utils.WriteError(w, err, "failed to find all banner")
		return
	}
	utils.WritePaginated(w, result, pagination, "Success find all banner")
}

func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	result, err := h.BannerService.FindOne(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err, "failed to find one banner")
		return
	}
	utils.WriteSuccess(w, result, "Success find one banner")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.BannerRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to update banner")
		return
	}

	result, err := h.BannerService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		utils.WriteError(w, err, "failed to update banner")
		return
	}
	utils.WriteSuccess(w, result, "Success update banner")
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	result, err := h.BannerService.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err, "failed to remove banner")
		return
	}
	utils.WriteSuccess(w, result, "Success remove banner")
}

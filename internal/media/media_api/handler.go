package media_api

import (
	"errors"
	"fmt"
	"net/http"

	"ms-events/internal/apperror"
	"ms-events/internal/logger"
	"ms-events/internal/media"
	"ms-events/internal/models"
	"ms-events/internal/utils"
)

const maxMultipartMemory = 8 << 20

type Handler struct {
	Service *media.Service
	Logger  *logger.Logger
}

func NewHandler(service *media.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

func (h *Handler) UploadSingle(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r, media.MaxFileSize); err != nil {
		utils.WriteError(w, err, "failed to upload file")
		return
	}

	_, fh, err := r.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		utils.WriteError(w, apperror.Wrap(apperror.Validation, "invalid file", err), "failed to upload file")
		return
	}

	result, err := h.Service.UploadSingle(r.Context(), fh)
	if err != nil {
		utils.WriteError(w, err, "failed to upload file")
		return
	}
	utils.WriteSuccess(w, result, "Success upload a file")
}

func (h *Handler) UploadMultiple(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r, media.MaxFileSize*media.MaxFilesPerReq); err != nil {
		utils.WriteError(w, err, "failed to upload files")
		return
	}

	result, err := h.Service.UploadMultiple(r.Context(), r.MultipartForm.File["files"])
	if err != nil {
		utils.WriteError(w, err, "failed to upload files")
		return
	}
	utils.WriteSuccess(w, result, "Success upload files")
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	var req models.MediaRemoveRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to remove file")
		return
	}

	if err := h.Service.Remove(r.Context(), req); err != nil {
		utils.WriteError(w, err, "failed to remove file")
		return
	}
	utils.WriteSuccess(w, nil, "Success remove file")
}

// parseForm caps the body before parsing so oversized uploads never hit disk.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.Logger.Warn("MEDIA", fmt.Sprintf("Multipart parse failed: %v", err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.NewValidation("file too large")
		}
		return apperror.Wrap(apperror.Validation, "multipart form is required", err)
	}
	return nil
}

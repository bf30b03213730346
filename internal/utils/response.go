package utils

import (
	"encoding/json"
	"net/http"

	"ms-events/internal/apperror"
	"ms-events/internal/models"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Data       interface{}           `json:"data"`
	Message    string                `json:"message"`
	Pagination *models.Pagination    `json:"pagination,omitempty"`
	Errors     []apperror.FieldError `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func WriteSuccess(w http.ResponseWriter, data interface{}, message string) {
	WriteJSON(w, http.StatusOK, Envelope{Data: data, Message: message})
}

func WritePaginated(w http.ResponseWriter, data interface{}, pagination models.Pagination, message string) {
	WriteJSON(w, http.StatusOK, Envelope{Data: data, Message: message, Pagination: &pagination})
}

// WriteError renders err with its kind's status. Internal errors never leak their
// cause; fallback is used when err carries no public message.
func WriteError(w http.ResponseWriter, err error, fallback string) {
	appErr, ok := apperror.As(err)
	if !ok {
		WriteJSON(w, http.StatusInternalServerError, Envelope{Message: fallback})
		return
	}

	message := appErr.Message
	if appErr.Kind == apperror.Internal || message == "" {
		message = fallback
	}
	WriteJSON(w, apperror.StatusCode(appErr.Kind), Envelope{Message: message, Errors: appErr.Fields})
}

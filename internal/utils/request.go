package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"ms-events/internal/apperror"
	"ms-events/internal/models"

	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// DecodeJSON reads a single JSON object from the request body into v.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.NewValidation("request body is required")
		}
		return apperror.Wrap(apperror.Validation, "invalid request body", err)
	}
	return nil
}

func ParsePageQuery(r *http.Request) models.PageQuery {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return models.PageQuery{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(q.Get("search")),
	}.Normalize()
}

// QueryBool returns nil when key is absent or not a boolean.
func QueryBool(r *http.Request, key string) *bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// IsUUID reports whether id is a well-formed identifier.
func IsUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ms-events/internal/apperror"
	"ms-events/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestWriteSuccess(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteSuccess(rr, map[string]string{"name": "Music"}, "success create category")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	body := decodeEnvelope(t, rr)
	assert.Equal(t, "success create category", body["message"])
	assert.Equal(t, map[string]interface{}{"name": "Music"}, body["data"])
	assert.NotContains(t, body, "pagination")
}

func TestWritePaginated(t *testing.T) {
	rr := httptest.NewRecorder()
	WritePaginated(rr, []int{1, 2}, models.Pagination{Total: 12, Current: 2, TotalPages: 2}, "success find all")

	body := decodeEnvelope(t, rr)
	assert.Equal(t, map[string]interface{}{"total": float64(12), "current": float64(2), "totalPages": float64(2)}, body["pagination"])
}

func TestWriteError_Kinds(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{apperror.NewNotFound("order not found"), http.StatusNotFound, "order not found"},
		{apperror.NewConflict("ticket quantity is not enough"), http.StatusConflict, "ticket quantity is not enough"},
		{apperror.NewInternal("db exploded", errors.New("pq: oops")), http.StatusInternalServerError, "failed to create an order"},
		{errors.New("raw"), http.StatusInternalServerError, "failed to create an order"},
	}

	for _, tt := range tests {
		rr := httptest.NewRecorder()
		WriteError(rr, tt.err, "failed to create an order")

		assert.Equal(t, tt.status, rr.Code)
		body := decodeEnvelope(t, rr)
		assert.Nil(t, body["data"])
		assert.Equal(t, tt.message, body["message"])
	}
}

func TestWriteError_ValidationFields(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, apperror.NewValidation("email is required", apperror.FieldError{Field: "email", Message: "email is required"}), "failed")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeEnvelope(t, rr)
	assert.Len(t, body["errors"], 1)
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "x", v.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{bad`))
	assert.True(t, apperror.Is(DecodeJSON(r, &v), apperror.Validation))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.True(t, apperror.Is(DecodeJSON(r, &v), apperror.Validation))
}

func TestParsePageQueryAndQueryBool(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=2&limit=5&search=%20jazz%20&isPublish=true&isOnline=maybe", nil)

	q := ParsePageQuery(r)
	assert.Equal(t, models.PageQuery{Page: 2, Limit: 5, Search: "jazz"}, q)

	require.NotNil(t, QueryBool(r, "isPublish"))
	assert.True(t, *QueryBool(r, "isPublish"))
	assert.Nil(t, QueryBool(r, "isOnline"))
	assert.Nil(t, QueryBool(r, "missing"))
}

func TestGenerators(t *testing.T) {
	code := GenerateOrderCode()
	assert.Len(t, code, ShortCodeLength)
	for _, c := range code {
		assert.True(t, strings.ContainsRune(shortCodeAlphabet, c))
	}

	codes := GenerateVoucherCodes(50)
	assert.Len(t, codes, 50)
	seen := map[string]bool{}
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}

	assert.True(t, IsUUID(uuid.NewString()))
	assert.False(t, IsUUID("not-an-id"))
}

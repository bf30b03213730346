package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"ms-events/internal/logger"
	"ms-events/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestRecoverer(t *testing.T) {
	var out bytes.Buffer
	log := logger.NewWithWriter(&out)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(log))
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) { panic("kaboom") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"data":null,"message":"internal server error"}`, rr.Body.String())
	assert.Contains(t, out.String(), "kaboom")
}

func TestRequestLogger(t *testing.T) {
	var out bytes.Buffer
	log := logger.NewWithWriter(&out)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(log))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Contains(t, out.String(), "/items/42")
	assert.Contains(t, out.String(), "418")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	r := chi.NewRouter()
	r.NotFound(middleware.NotFound)
	r.MethodNotAllowed(middleware.MethodNotAllowed)
	r.Get("/only-get", func(w http.ResponseWriter, r *http.Request) {})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "route not found")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/only-get", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"ms-events/internal/logger"
	"ms-events/internal/metrics"
	"ms-events/internal/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs each request and records it in the HTTP metrics,
// labelled by route pattern so path params don't explode cardinality.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			metrics.ObserveRequest(r.Method, route, status, elapsed)
			log.LogAPI(r.Method, r.URL.Path, strconv.Itoa(status), elapsed.String())
		})
	}
}

// Recoverer turns a panic into a 500 envelope.
func Recoverer(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("HTTP", fmt.Sprintf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack()))
				utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{Message: "internal server error"})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusNotFound, utils.Envelope{Message: "route not found"})
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusMethodNotAllowed, utils.Envelope{Message: "method not allowed"})
}

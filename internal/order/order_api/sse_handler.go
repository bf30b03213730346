package order_api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ms-events/internal/logger"
	"ms-events/internal/sse"
	"ms-events/internal/utils"

	"github.com/go-chi/chi/v5"
)

const heartbeatInterval = 25 * time.Second

// SSEHandler streams completed orders of one event to admin dashboards.
type SSEHandler struct {
	Logger       *logger.Logger
	EventEmitter *sse.OrderEventEmitter
	Heartbeat    time.Duration
}

func NewSSEHandler(log *logger.Logger, emitter *sse.OrderEventEmitter) *SSEHandler {
	return &SSEHandler{Logger: log, EventEmitter: emitter, Heartbeat: heartbeatInterval}
}

// HandleEventOrders streams "order" events for the event in the URL until the client leaves.
func (h *SSEHandler) HandleEventOrders(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	if !utils.IsUUID(eventID) {
		utils.WriteJSON(w, http.StatusNotFound, utils.Envelope{Message: "event not found"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{Message: "streaming unsupported"})
		return
	}

	h.setupSSEHeaders(w)
	// The stream outlives the server's write timeout.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.Logger.Debug("SSE", fmt.Sprintf("Could not clear write deadline: %v", err))
	}

	ctx := r.Context()
	orders := h.EventEmitter.Subscribe(ctx, eventID)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"eventId\":%q}\n\n", eventID)
	flusher.Flush()
	h.Logger.Info("SSE", fmt.Sprintf("Client connected to order stream for event: %s", eventID))

	ticker := time.NewTicker(h.Heartbeat)
	defer ticker.Stop()

	for {
		select {
		case o, ok := <-orders:
			if !ok {
				return
			}
			data, err := json.Marshal(o)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize order %s: %v", o.OrderID, err))
				continue
			}
			fmt.Fprintf(w, "event: order\ndata: %s\n\n", data)
			flusher.Flush()

		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client disconnected from order stream for: %s", eventID))
			return
		}
	}
}

func (h *SSEHandler) setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}

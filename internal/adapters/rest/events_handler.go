package rest

import (
	"fmt"
	"net/http"

	"github.com/mchugh/liveblog/internal/realtime"
)

// EventsHandler streams change notifications to clients over
// server-sent events.
type EventsHandler struct {
	*BaseHandler
	hub *realtime.Hub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(base *BaseHandler, hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{
		BaseHandler: base,
		hub:         hub,
	}
}

// Stream subscribes the caller to the broadcast hub and writes one SSE
// frame per notification until the connection closes or the hub drops
// the subscriber.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.WriteJSONError(w, r, ErrorCodeInternalServerError, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case frame, open := <-sub.Out():
			if !open {
				// Dropped by the hub for falling behind.
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", frame); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

package handlers

import (
	"net/http"

	"github.com/hieudev/todo-api/internal/features"
)

// PingHandler answers liveness pings, gated by the PING_API flag
type PingHandler struct {
	flags *features.Store
}

// NewPingHandler creates a new ping handler
func NewPingHandler(flags *features.Store) *PingHandler {
	return &PingHandler{flags: flags}
}

// Ping responds with "pong", or 503 when the flag is disabled
func (h *PingHandler) Ping(w http.ResponseWriter, r *http.Request) {
	if !h.flags.IsEnabled(features.FlagPingAPI) {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

package http

import (
	"net/http"

	"github.com/glasspane-ai/glasspane/internal/adapter/llm"
	"github.com/glasspane-ai/glasspane/internal/adapter/ws"
	"github.com/glasspane-ai/glasspane/internal/port/messagequeue"
	"github.com/glasspane-ai/glasspane/internal/resilience"
	"github.com/glasspane-ai/glasspane/internal/service"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Chat    *service.ChatService
	Auth    *service.AuthService
	LLM     *llm.Client
	Queue   messagequeue.Queue
	Breaker *resilience.Breaker
	Hub     *ws.Hub
}

// Health handles GET /health. It always answers 200; component states are
// reported in the body so operators can see degradation without the probe
// restarting the process.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	type healthStatus struct {
		Status        string `json:"status"`
		NATS          string `json:"nats"`
		Breaker       string `json:"breaker"`
		WSConnections int    `json:"ws_connections"`
	}

	status := healthStatus{Status: "ok", NATS: "disabled", Breaker: "disabled"}
	if h.Queue != nil {
		status.NATS = "disconnected"
		if h.Queue.IsConnected() {
			status.NATS = "connected"
		}
	}
	if h.Breaker != nil {
		status.Breaker = string(h.Breaker.State())
	}
	if h.Hub != nil {
		status.WSConnections = h.Hub.ConnectionCount()
	}
	writeJSON(w, http.StatusOK, status)
}

// Ready handles GET /health/ready. It answers 503 until the upstream model
// endpoint responds and the message queue connection is established.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	if h.Queue != nil && !h.Queue.IsConnected() {
		writeError(w, http.StatusServiceUnavailable, "message queue disconnected")
		return
	}
	if h.LLM != nil {
		if healthy, err := h.LLM.Health(r.Context()); err != nil || !healthy {
			writeError(w, http.StatusServiceUnavailable, "upstream model unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

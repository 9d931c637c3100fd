package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/glasspane-ai/glasspane/internal/domain/chat"
	"github.com/glasspane-ai/glasspane/internal/middleware"
)

// CreateConversation handles POST /api/v1/conversations
func (h *Handlers) CreateConversation(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	req, ok := readJSON[chat.CreateRequest](w, r)
	if !ok {
		return
	}
	conv, err := h.Chat.CreateConversation(r.Context(), tenantID, req)
	if err != nil {
		writeDomainError(w, err, "create conversation")
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

// ListConversations handles GET /api/v1/conversations
func (h *Handlers) ListConversations(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	conversations, err := h.Chat.ListConversations(r.Context(), tenantID)
	if err != nil {
		writeDomainError(w, err, "list conversations")
		return
	}
	if conversations == nil {
		conversations = []chat.Conversation{}
	}
	writeJSON(w, http.StatusOK, conversations)
}

// GetConversation handles GET /api/v1/conversations/{id}
func (h *Handlers) GetConversation(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	conv, err := h.Chat.GetConversation(r.Context(), urlParam(r, "id"), tenantID)
	if err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// DeleteConversation handles DELETE /api/v1/conversations/{id}
func (h *Handlers) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if err := h.Chat.DeleteConversation(r.Context(), urlParam(r, "id"), tenantID); err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMessages handles GET /api/v1/conversations/{id}/messages
func (h *Handlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	id := urlParam(r, "id")

	// The history query is not tenant scoped, so check ownership first.
	if _, err := h.Chat.GetConversation(r.Context(), id, tenantID); err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}

	messages, err := h.Chat.History(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "list messages")
		return
	}
	if messages == nil {
		messages = []chat.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// SendMessage handles POST /api/v1/conversations/{id}/messages.
//
// The response is a server-sent event stream: every sanitized fragment of the
// assistant reply is emitted as a "delta" event the moment it clears the
// sanitizer, followed by a single "done" event carrying the persisted message.
// Failures after the stream has started are reported as an "error" event
// because the 200 status line is already on the wire.
func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	id := urlParam(r, "id")

	req, ok := readJSON[chat.SendMessageRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		writeDomainError(w, err, "invalid message")
		return
	}

	// Resolve the conversation before committing to the event stream so
	// missing or foreign conversations still get a proper JSON status.
	if _, err := h.Chat.GetConversation(r.Context(), id, tenantID); err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	type deltaEvent struct {
		Delta string `json:"delta"`
	}

	msg, err := h.Chat.StreamReply(r.Context(), tenantID, id, req, func(delta string) error {
		return writeSSE(w, flusher, "delta", deltaEvent{Delta: delta})
	})
	if err != nil {
		// A closed client connection shows up as a write error from the
		// delta callback; there is nobody left to notify.
		if !errors.Is(err, r.Context().Err()) {
			slog.Error("stream reply failed", "conversation_id", id, "error", err)
			_ = writeSSE(w, flusher, "error", errorResponse{Error: "stream failed"})
		}
		return
	}

	_ = writeSSE(w, flusher, "done", msg)
}

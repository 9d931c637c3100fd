package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event type constants for WebSocket messages.
const (
	EventMessageDelta        = "message.delta"
	EventMessageCompleted    = "message.completed"
	EventConversationCreated = "conversation.created"
)

// MessageDeltaEvent is broadcast for every sanitized fragment of a streaming reply.
type MessageDeltaEvent struct {
	ConversationID string `json:"conversation_id"`
	Delta          string `json:"delta"`
}

// MessageCompletedEvent is broadcast when a streaming reply has been fully
// sanitized and persisted.
type MessageCompletedEvent struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	Content        string `json:"content"`
	Model          string `json:"model,omitempty"`
}

// ConversationCreatedEvent is broadcast when a new conversation is created.
type ConversationCreatedEvent struct {
	ConversationID string `json:"conversation_id"`
	Title          string `json:"title"`
}

// BroadcastEvent is a convenience method that marshals a typed event and broadcasts it.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}

// BroadcastTenantEvent marshals a typed event and sends it to one tenant's connections.
func (h *Hub) BroadcastTenantEvent(ctx context.Context, tenantID, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.BroadcastTenant(ctx, tenantID, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}

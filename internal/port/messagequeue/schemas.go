package messagequeue

// MessageCompletedPayload is the schema for chat.message.completed messages.
type MessageCompletedPayload struct {
	MessageID      string `json:"message_id"`
	ConversationID string `json:"conversation_id"`
	TenantID       string `json:"tenant_id"`
	Model          string `json:"model"`
	TokensOut      int    `json:"tokens_out"`
}

// ConversationCreatedPayload is the schema for chat.conversation.created messages.
type ConversationCreatedPayload struct {
	ConversationID string `json:"conversation_id"`
	TenantID       string `json:"tenant_id"`
	Title          string `json:"title"`
}

// StreamFailedPayload is the schema for chat.stream.failed messages.
type StreamFailedPayload struct {
	ConversationID string `json:"conversation_id"`
	TenantID       string `json:"tenant_id"`
	Error          string `json:"error"`
}

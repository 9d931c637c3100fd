// Package chat defines the conversation and message types for GlassPane.
package chat

import (
	"fmt"
	"time"

	"github.com/glasspane-ai/glasspane/internal/domain"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Conversation represents a chat thread owned by a tenant.
type Conversation struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Title     string    `json:"title"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message represents a single message in a conversation.
// Content holds the sanitized text shown to end users. RawContent keeps the
// exact upstream bytes for audit and reprocessing; it is never serialized to
// API clients.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	RawContent     string    `json:"-"`
	Model          string    `json:"model,omitempty"`
	TokensIn       int       `json:"tokens_in,omitempty"`
	TokensOut      int       `json:"tokens_out,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateRequest is the request body for creating a new conversation.
type CreateRequest struct {
	Title string `json:"title"`
	Model string `json:"model,omitempty"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	return nil
}

// SendMessageRequest is the request body for sending a message and
// streaming back the assistant reply.
type SendMessageRequest struct {
	Content string `json:"content"`
	Model   string `json:"model,omitempty"` // override the conversation model
}

// Validate checks that the SendMessageRequest has all required fields.
func (r *SendMessageRequest) Validate() error {
	if r.Content == "" {
		return fmt.Errorf("content is required: %w", domain.ErrValidation)
	}
	return nil
}

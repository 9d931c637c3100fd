// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/glasspane-ai/glasspane/internal/domain/chat"
	"github.com/glasspane-ai/glasspane/internal/domain/tenant"
)

// Store is the port interface for database operations.
type Store interface {
	// Tenants
	GetTenant(ctx context.Context, id string) (*tenant.Tenant, error)
	CreateTenant(ctx context.Context, t *tenant.Tenant) error

	// API keys
	CreateAPIKey(ctx context.Context, k *tenant.APIKey) error
	GetAPIKeyByPrefix(ctx context.Context, prefix string) (*tenant.APIKey, error)
	ListAPIKeysByTenant(ctx context.Context, tenantID string) ([]tenant.APIKey, error)
	TouchAPIKey(ctx context.Context, id string) error
	DeleteAPIKey(ctx context.Context, id string) error

	// Conversations
	ListConversations(ctx context.Context, tenantID string) ([]chat.Conversation, error)
	GetConversation(ctx context.Context, id, tenantID string) (*chat.Conversation, error)
	CreateConversation(ctx context.Context, c *chat.Conversation) error
	DeleteConversation(ctx context.Context, id, tenantID string) error

	// Messages
	ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error)
	CreateMessage(ctx context.Context, m *chat.Message) error
}

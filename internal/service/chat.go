package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/glasspane-ai/glasspane/internal/adapter/llm"
	"github.com/glasspane-ai/glasspane/internal/adapter/otel"
	"github.com/glasspane-ai/glasspane/internal/adapter/ws"
	"github.com/glasspane-ai/glasspane/internal/config"
	"github.com/glasspane-ai/glasspane/internal/domain/chat"
	"github.com/glasspane-ai/glasspane/internal/port/broadcast"
	"github.com/glasspane-ai/glasspane/internal/port/cache"
	"github.com/glasspane-ai/glasspane/internal/port/database"
	"github.com/glasspane-ai/glasspane/internal/port/messagequeue"
)

// ChatService manages conversations and streams sanitized assistant replies.
type ChatService struct {
	db         database.Store
	llm        *llm.Client
	hub        broadcast.Broadcaster
	queue      messagequeue.Queue
	cache      cache.Cache
	metrics    *otel.Metrics
	model      string
	historyTTL time.Duration
	sanCfg     config.Sanitizer
}

// NewChatService creates a new ChatService. queue, cache, and metrics may be
// nil; the corresponding concerns are then skipped.
func NewChatService(db database.Store, llmClient *llm.Client, hub broadcast.Broadcaster,
	queue messagequeue.Queue, c cache.Cache, metrics *otel.Metrics,
	defaultModel string, historyTTL time.Duration, sanCfg config.Sanitizer,
) *ChatService {
	if defaultModel == "" {
		defaultModel = "default"
	}
	return &ChatService{
		db:         db,
		llm:        llmClient,
		hub:        hub,
		queue:      queue,
		cache:      c,
		metrics:    metrics,
		model:      defaultModel,
		historyTTL: historyTTL,
		sanCfg:     sanCfg,
	}
}

// CreateConversation creates a new conversation for a tenant.
func (s *ChatService) CreateConversation(ctx context.Context, tenantID string, req chat.CreateRequest) (*chat.Conversation, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	c := &chat.Conversation{
		TenantID: tenantID,
		Title:    req.Title,
		Model:    req.Model,
	}
	if err := s.db.CreateConversation(ctx, c); err != nil {
		return nil, err
	}

	s.publish(ctx, messagequeue.SubjectConversationCreated, messagequeue.ConversationCreatedPayload{
		ConversationID: c.ID,
		TenantID:       c.TenantID,
		Title:          c.Title,
	})
	if s.hub != nil {
		s.hub.BroadcastTenantEvent(ctx, tenantID, ws.EventConversationCreated, ws.ConversationCreatedEvent{
			ConversationID: c.ID,
			Title:          c.Title,
		})
	}
	return c, nil
}

// GetConversation returns a conversation by ID, scoped to the tenant.
func (s *ChatService) GetConversation(ctx context.Context, id, tenantID string) (*chat.Conversation, error) {
	return s.db.GetConversation(ctx, id, tenantID)
}

// ListConversations returns all conversations for a tenant.
func (s *ChatService) ListConversations(ctx context.Context, tenantID string) ([]chat.Conversation, error) {
	return s.db.ListConversations(ctx, tenantID)
}

// DeleteConversation removes a conversation and its cached history.
func (s *ChatService) DeleteConversation(ctx context.Context, id, tenantID string) error {
	if err := s.db.DeleteConversation(ctx, id, tenantID); err != nil {
		return err
	}
	s.invalidateHistory(ctx, id)
	return nil
}

// History returns all messages in a conversation, cached for historyTTL.
func (s *ChatService) History(ctx context.Context, conversationID string) ([]chat.Message, error) {
	key := cache.HistoryKey(conversationID)

	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var msgs []chat.Message
			if err := json.Unmarshal(data, &msgs); err == nil {
				return msgs, nil
			}
		}
	}

	msgs, err := s.db.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(msgs); err == nil {
			_ = s.cache.Set(ctx, key, data, s.historyTTL)
		}
	}
	return msgs, nil
}

func (s *ChatService) invalidateHistory(ctx context.Context, conversationID string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, cache.HistoryKey(conversationID))
	}
}

func (s *ChatService) publish(ctx context.Context, subject string, payload any) {
	if s.queue == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal queue payload", "subject", subject, "error", err)
		return
	}
	if err := s.queue.Publish(ctx, subject, data); err != nil {
		slog.Error("queue publish failed", "subject", subject, "error", err)
	}
}

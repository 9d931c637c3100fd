package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/glasspane-ai/glasspane/internal/domain"
	"github.com/glasspane-ai/glasspane/internal/domain/chat"
)

func (s *Store) ListConversations(ctx context.Context, tenantID string) ([]chat.Conversation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, title, model, created_at, updated_at
		 FROM conversations WHERE tenant_id = $1 ORDER BY updated_at DESC`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var result []chat.Conversation
	for rows.Next() {
		var c chat.Conversation
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Title, &c.Model, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *Store) GetConversation(ctx context.Context, id, tenantID string) (*chat.Conversation, error) {
	var c chat.Conversation
	err := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, title, model, created_at, updated_at
		 FROM conversations WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&c.ID, &c.TenantID, &c.Title, &c.Model, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get conversation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get conversation %s: %w", id, err)
	}
	return &c, nil
}

func (s *Store) CreateConversation(ctx context.Context, c *chat.Conversation) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO conversations (tenant_id, title, model)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.TenantID, c.Title, c.Model,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

func (s *Store) DeleteConversation(ctx context.Context, id, tenantID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM conversations WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete conversation %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete conversation %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, conversation_id, role, content, raw_content, model, tokens_in, tokens_out, created_at
		 FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC`,
		conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var result []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.RawContent,
			&m.Model, &m.TokensIn, &m.TokensOut, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (s *Store) CreateMessage(ctx context.Context, m *chat.Message) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO messages (conversation_id, role, content, raw_content, model, tokens_in, tokens_out)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		m.ConversationID, m.Role, m.Content, m.RawContent, m.Model, m.TokensIn, m.TokensOut,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	// Keep the conversation ordering current for list views.
	_, _ = s.pool.Exec(ctx, `UPDATE conversations SET updated_at = NOW() WHERE id = $1`, m.ConversationID)
	return nil
}

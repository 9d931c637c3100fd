package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/glasspane-ai/glasspane/internal/domain"
	"github.com/glasspane-ai/glasspane/internal/domain/tenant"
)

func (s *Store) CreateAPIKey(ctx context.Context, k *tenant.APIKey) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO api_keys (id, tenant_id, name, prefix, key_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		k.ID, k.TenantID, k.Name, k.Prefix, k.KeyHash,
	).Scan(&k.CreatedAt)
	if err != nil {
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

// GetAPIKeyByPrefix looks up a key by its display prefix. The caller must
// still verify the full key against KeyHash.
func (s *Store) GetAPIKeyByPrefix(ctx context.Context, prefix string) (*tenant.APIKey, error) {
	var k tenant.APIKey
	err := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, prefix, key_hash, COALESCE(last_used_at, 'epoch'::timestamptz), created_at
		 FROM api_keys WHERE prefix = $1`,
		prefix,
	).Scan(&k.ID, &k.TenantID, &k.Name, &k.Prefix, &k.KeyHash, &k.LastUsedAt, &k.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get api key: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get api key: %w", err)
	}
	return &k, nil
}

func (s *Store) ListAPIKeysByTenant(ctx context.Context, tenantID string) ([]tenant.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, prefix, key_hash, COALESCE(last_used_at, 'epoch'::timestamptz), created_at
		 FROM api_keys WHERE tenant_id = $1 ORDER BY created_at DESC`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var result []tenant.APIKey
	for rows.Next() {
		var k tenant.APIKey
		if err := rows.Scan(&k.ID, &k.TenantID, &k.Name, &k.Prefix, &k.KeyHash, &k.LastUsedAt, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		result = append(result, k)
	}
	return result, rows.Err()
}

func (s *Store) TouchAPIKey(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `UPDATE api_keys SET last_used_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch api key %s: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteAPIKey(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete api key %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete api key %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/glasspane-ai/glasspane/internal/domain"
	"github.com/glasspane-ai/glasspane/internal/domain/tenant"
	"github.com/glasspane-ai/glasspane/internal/port/database"
)

// prefixLen is the number of leading characters stored for key lookup:
// "gp_" plus eight hex characters.
const prefixLen = len(tenant.APIKeyPrefix) + 8

// AuthService handles tenant provisioning and API key authentication.
type AuthService struct {
	store database.Store
}

// NewAuthService creates a new authentication service.
func NewAuthService(store database.Store) *AuthService {
	return &AuthService{store: store}
}

// CreateTenant provisions a new tenant account.
func (s *AuthService) CreateTenant(ctx context.Context, name string) (*tenant.Tenant, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	t := &tenant.Tenant{
		ID:      uuid.NewString(),
		Name:    name,
		Enabled: true,
	}
	if err := s.store.CreateTenant(ctx, t); err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	return t, nil
}

// CreateAPIKey generates a new API key for a tenant. The plain key is
// returned exactly once; only a bcrypt hash is stored.
func (s *AuthService) CreateAPIKey(ctx context.Context, req tenant.CreateAPIKeyRequest) (*tenant.CreateAPIKeyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	rawKey, err := generateRandomToken(24)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	plainKey := tenant.APIKeyPrefix + rawKey

	hash, err := bcrypt.GenerateFromPassword([]byte(plainKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash key: %w", err)
	}

	key := &tenant.APIKey{
		ID:       uuid.NewString(),
		TenantID: req.TenantID,
		Name:     req.Name,
		Prefix:   plainKey[:prefixLen],
		KeyHash:  string(hash),
	}

	if err := s.store.CreateAPIKey(ctx, key); err != nil {
		return nil, fmt.Errorf("create api key: %w", err)
	}

	return &tenant.CreateAPIKeyResponse{
		APIKey:   *key,
		PlainKey: plainKey,
	}, nil
}

// ValidateAPIKey verifies a raw API key and returns the stored key record.
// The key's tenant must exist and be enabled.
func (s *AuthService) ValidateAPIKey(ctx context.Context, rawKey string) (*tenant.APIKey, error) {
	if !strings.HasPrefix(rawKey, tenant.APIKeyPrefix) || len(rawKey) < prefixLen {
		return nil, errors.New("invalid api key")
	}

	key, err := s.store.GetAPIKeyByPrefix(ctx, rawKey[:prefixLen])
	if err != nil {
		return nil, errors.New("invalid api key")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(rawKey)); err != nil {
		return nil, errors.New("invalid api key")
	}

	t, err := s.store.GetTenant(ctx, key.TenantID)
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	if !t.Enabled {
		return nil, errors.New("tenant is disabled")
	}

	if err := s.store.TouchAPIKey(ctx, key.ID); err != nil {
		slog.Warn("touch api key failed", "key_id", key.ID, "error", err)
	}
	return key, nil
}

// ListAPIKeys returns all API keys for a tenant.
func (s *AuthService) ListAPIKeys(ctx context.Context, tenantID string) ([]tenant.APIKey, error) {
	return s.store.ListAPIKeysByTenant(ctx, tenantID)
}

// DeleteAPIKey removes an API key. The key must belong to the given tenant.
func (s *AuthService) DeleteAPIKey(ctx context.Context, tenantID, id string) error {
	keys, err := s.store.ListAPIKeysByTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("list api keys: %w", err)
	}
	for _, k := range keys {
		if k.ID == id {
			return s.store.DeleteAPIKey(ctx, id)
		}
	}
	return domain.ErrNotFound
}

func generateRandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

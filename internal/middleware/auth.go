package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/glasspane-ai/glasspane/internal/domain/tenant"
)

type apiKeyCtxKey struct{}

// KeyValidator verifies raw API keys. Implemented by service.AuthService.
type KeyValidator interface {
	ValidateAPIKey(ctx context.Context, rawKey string) (*tenant.APIKey, error)
}

// publicPaths are exempt from authentication.
var publicPaths = map[string]bool{
	"/health":       true,
	"/health/ready": true,
}

// Auth returns middleware that validates API key credentials.
// When authEnabled is false, the default tenant context is injected.
func Auth(validator KeyValidator, authEnabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authEnabled {
				next.ServeHTTP(w, r.WithContext(WithTenantID(r.Context(), DefaultTenantID)))
				return
			}

			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			rawKey := extractKey(r)
			if rawKey == "" {
				http.Error(w, `{"error":"authorization required"}`, http.StatusUnauthorized)
				return
			}

			key, err := validator.ValidateAPIKey(r.Context(), rawKey)
			if err != nil {
				http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
				return
			}

			ctx := WithTenantID(r.Context(), key.TenantID)
			ctx = context.WithValue(ctx, apiKeyCtxKey{}, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractKey pulls the API key from X-API-Key, Authorization: Bearer, or the
// ?token= query parameter (browsers cannot set headers on WebSocket dials).
func extractKey(r *http.Request) string {
	if k := r.Header.Get("X-API-Key"); k != "" {
		return k
	}
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token := strings.TrimPrefix(auth, "Bearer "); token != auth {
			return token
		}
		return ""
	}
	if r.URL.Path == "/ws" {
		return r.URL.Query().Get("token")
	}
	return ""
}

// APIKeyFromContext returns the validated API key from the request context.
func APIKeyFromContext(ctx context.Context) *tenant.APIKey {
	k, _ := ctx.Value(apiKeyCtxKey{}).(*tenant.APIKey)
	return k
}

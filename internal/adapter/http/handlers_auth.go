package http

import (
	"net/http"

	"github.com/glasspane-ai/glasspane/internal/domain/tenant"
	"github.com/glasspane-ai/glasspane/internal/middleware"
)

// CreateAPIKey handles POST /api/v1/keys. The plain key appears in the
// response exactly once and is never retrievable again.
func (h *Handlers) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	req, ok := readJSON[tenant.CreateAPIKeyRequest](w, r)
	if !ok {
		return
	}
	req.TenantID = tenantID

	resp, err := h.Auth.CreateAPIKey(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "create api key")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListAPIKeys handles GET /api/v1/keys
func (h *Handlers) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	keys, err := h.Auth.ListAPIKeys(r.Context(), tenantID)
	if err != nil {
		writeDomainError(w, err, "list api keys")
		return
	}
	if keys == nil {
		keys = []tenant.APIKey{}
	}
	writeJSON(w, http.StatusOK, keys)
}

// DeleteAPIKey handles DELETE /api/v1/keys/{id}
func (h *Handlers) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if err := h.Auth.DeleteAPIKey(r.Context(), tenantID, urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "api key not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Package middleware provides HTTP middleware for GlassPane.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/glasspane-ai/glasspane/internal/logger"
)

const (
	headerRequestID = "X-Request-ID"

	// Caps an inbound ID so a hostile client cannot pad every log line.
	maxRequestIDLen = 64
)

// RequestID tags every request with an ID for log correlation. A sane inbound
// X-Request-ID is honored so IDs survive a proxy hop; anything missing or
// oversized gets a fresh UUID. The ID is echoed on the response so clients
// can quote it when reporting a failed stream.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}

		ctx := logger.WithRequestID(r.Context(), id)
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/glasspane-ai/glasspane/internal/logger"
)

func serveWithRequestID(t *testing.T, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var ctxID string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctxID = logger.RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil)
	if header != "" {
		req.Header.Set("X-Request-ID", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, ctxID
}

func TestRequestIDGenerated(t *testing.T) {
	rec, ctxID := serveWithRequestID(t, "")

	echoed := rec.Header().Get("X-Request-ID")
	if echoed == "" {
		t.Fatal("expected generated ID on response header")
	}
	if _, err := uuid.Parse(echoed); err != nil {
		t.Fatalf("generated ID is not a UUID: %q", echoed)
	}
	if ctxID != echoed {
		t.Fatalf("context ID %q does not match header %q", ctxID, echoed)
	}
}

func TestRequestIDInboundHonored(t *testing.T) {
	rec, ctxID := serveWithRequestID(t, "proxy-assigned-42")

	if got := rec.Header().Get("X-Request-ID"); got != "proxy-assigned-42" {
		t.Fatalf("inbound ID not echoed: %q", got)
	}
	if ctxID != "proxy-assigned-42" {
		t.Fatalf("inbound ID not stored in context: %q", ctxID)
	}
}

func TestRequestIDOversizedReplaced(t *testing.T) {
	huge := strings.Repeat("x", maxRequestIDLen+1)
	rec, ctxID := serveWithRequestID(t, huge)

	echoed := rec.Header().Get("X-Request-ID")
	if echoed == huge {
		t.Fatal("oversized inbound ID should be replaced")
	}
	if _, err := uuid.Parse(echoed); err != nil {
		t.Fatalf("replacement is not a UUID: %q", echoed)
	}
	if ctxID != echoed {
		t.Fatalf("context ID %q does not match header %q", ctxID, echoed)
	}
}

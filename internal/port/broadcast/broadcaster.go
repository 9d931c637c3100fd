// Package broadcast defines the port for broadcasting real-time events to connected clients.
package broadcast

import "context"

// Broadcaster sends real-time events to connected clients.
type Broadcaster interface {
	// BroadcastEvent sends a typed event to all connected clients.
	BroadcastEvent(ctx context.Context, eventType string, payload any)

	// BroadcastTenantEvent sends a typed event to one tenant's connections only.
	BroadcastTenantEvent(ctx context.Context, tenantID, eventType string, payload any)
}

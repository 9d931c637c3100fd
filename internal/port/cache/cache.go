// Package cache defines the port for the in-process history cache.
//
// The service layer keeps one keyspace here: serialized conversation
// histories, keyed by HistoryKey. Implementations may evict at any time;
// a miss falls back to Postgres.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-value cache with per-entry TTLs. Implementations are safe
// for concurrent use and may apply writes asynchronously, so a Get directly
// after a Set is allowed to miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// HistoryKey returns the cache key holding the serialized message history of
// one conversation. Invalidation on new messages and on conversation delete
// goes through the same key.
func HistoryKey(conversationID string) string {
	return "history:" + conversationID
}

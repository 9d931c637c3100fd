// Package ristretto implements the history cache port with an in-process
// ristretto cache, the L1 in front of Postgres for conversation history.
package ristretto

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Serialized histories run from a few hundred bytes for a fresh conversation
// to tens of KB for a long one; admission counters are sized assuming ~4KB
// per entry.
const avgEntryBytes = 4096

// Cache holds serialized conversation histories in process memory.
type Cache struct {
	c *ristretto.Cache[string, []byte]
}

// New creates a history cache bounded to maxSizeMB of stored bytes.
func New(maxSizeMB int64) (*Cache, error) {
	maxCost := maxSizeMB << 20
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCost / avgEntryBytes * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c}, nil
}

// Get returns the cached history bytes for key, if present. Eviction is not
// an error; callers reload from the store on a miss.
func (c *Cache) Get(_ context.Context, key string) (data []byte, ok bool, err error) {
	val, found := c.c.Get(key)
	if !found {
		return nil, false, nil
	}
	return val, true, nil
}

// Set stores value under key until ttl expires. The entry is costed at key
// plus value bytes, so many small histories cannot dodge the size bound.
// Writes are buffered; Get may miss until the write is admitted.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.c.SetWithTTL(key, value, int64(len(key)+len(value)), ttl)
	return nil
}

// Delete invalidates key, typically after a new message lands in the
// conversation.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.c.Del(key)
	return nil
}

// Wait blocks until buffered writes have been applied.
func (c *Cache) Wait() {
	c.c.Wait()
}

// Close stops the cache's background goroutines.
func (c *Cache) Close() {
	c.c.Close()
}

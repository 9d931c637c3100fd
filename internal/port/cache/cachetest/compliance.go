// Package cachetest holds the conformance suite every cache port
// implementation runs in its own tests.
package cachetest

import (
	"context"
	"testing"
	"time"

	"github.com/glasspane-ai/glasspane/internal/port/cache"
)

// RunComplianceTests exercises the Cache contract against any implementation.
// settle, if non-nil, is called after writes for backends that apply them
// asynchronously.
func RunComplianceTests(t *testing.T, c cache.Cache, settle func()) {
	t.Helper()
	ctx := context.Background()

	wrote := func() {
		if settle != nil {
			settle()
		}
	}

	t.Run("SetAndGet", func(t *testing.T) {
		key := cache.HistoryKey("conv-compliance")
		if err := c.Set(ctx, key, []byte(`[{"role":"user"}]`), time.Minute); err != nil {
			t.Fatal(err)
		}
		wrote()
		val, found, err := c.Get(ctx, key)
		if err != nil {
			t.Fatal(err)
		}
		if !found {
			t.Fatal("expected found after Set")
		}
		if string(val) != `[{"role":"user"}]` {
			t.Fatalf("unexpected value %s", val)
		}
	})

	t.Run("GetMiss", func(t *testing.T) {
		_, found, err := c.Get(ctx, cache.HistoryKey("conv-never-cached"))
		if err != nil {
			t.Fatal(err)
		}
		if found {
			t.Fatal("expected miss for uncached conversation")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		key := cache.HistoryKey("conv-deleted")
		_ = c.Set(ctx, key, []byte("stale"), time.Minute)
		wrote()
		if err := c.Delete(ctx, key); err != nil {
			t.Fatal(err)
		}
		wrote()
		_, found, err := c.Get(ctx, key)
		if err != nil {
			t.Fatal(err)
		}
		if found {
			t.Fatal("expected miss after Delete")
		}
	})

	t.Run("DeleteNonexistent", func(t *testing.T) {
		if err := c.Delete(ctx, cache.HistoryKey("conv-never-existed")); err != nil {
			t.Fatal("Delete of nonexistent key should not error")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		key := cache.HistoryKey("conv-overwrite")
		_ = c.Set(ctx, key, []byte("v1"), time.Minute)
		wrote()
		_ = c.Set(ctx, key, []byte("v2"), time.Minute)
		wrote()
		val, found, err := c.Get(ctx, key)
		if err != nil {
			t.Fatal(err)
		}
		if !found {
			t.Fatal("expected found after overwrite")
		}
		if string(val) != "v2" {
			t.Fatalf("expected v2 after overwrite, got %s", val)
		}
	})
}

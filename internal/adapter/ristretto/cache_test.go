package ristretto_test

import (
	"context"
	"testing"
	"time"

	"github.com/glasspane-ai/glasspane/internal/adapter/ristretto"
	"github.com/glasspane-ai/glasspane/internal/port/cache"
	"github.com/glasspane-ai/glasspane/internal/port/cache/cachetest"
)

func newTestCache(t *testing.T) *ristretto.Cache {
	t.Helper()
	c, err := ristretto.New(1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestCacheCompliance(t *testing.T) {
	c := newTestCache(t)
	cachetest.RunComplianceTests(t, c, c.Wait)
}

func TestHistoryRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	key := cache.HistoryKey("conv-1")
	history := []byte(`[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]`)

	if err := c.Set(ctx, key, history, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	c.Wait()

	val, found, err := c.Get(ctx, key)
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if string(val) != string(history) {
		t.Fatalf("history bytes changed: %s", val)
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	c.Wait()
	if _, found, _ := c.Get(ctx, key); found {
		t.Fatal("expected miss after invalidation")
	}
}

func TestGetMiss(t *testing.T) {
	c := newTestCache(t)
	_, found, err := c.Get(context.Background(), cache.HistoryKey("conv-uncached"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Fatal("expected miss")
	}
}

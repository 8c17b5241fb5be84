package cache

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestCache(t *testing.T) Cache {
	t.Helper()

	c, err := NewRistrettoCache(&RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	t.Cleanup(c.Close)

	return c
}

func TestRistrettoCache_SetGet(t *testing.T) {
	c := newTestCache(t)

	ok := c.Set("trades:m1", "payload", time.Minute)
	if !ok {
		t.Fatal("expected set to succeed")
	}
	c.(*RistrettoCache).Wait()

	value, found := c.Get("trades:m1")
	if !found {
		t.Fatal("expected cache hit")
	}

	if value.(string) != "payload" {
		t.Errorf("expected payload, got %v", value)
	}
}

func TestRistrettoCache_Miss(t *testing.T) {
	c := newTestCache(t)

	_, found := c.Get("trades:absent")
	if found {
		t.Error("expected cache miss")
	}
}

func TestRistrettoCache_Delete(t *testing.T) {
	c := newTestCache(t)

	c.Set("articles:q1", []string{"a1"}, time.Minute)
	c.(*RistrettoCache).Wait()

	c.Delete("articles:q1")

	_, found := c.Get("articles:q1")
	if found {
		t.Error("expected miss after delete")
	}
}

func TestRistrettoCache_Clear(t *testing.T) {
	c := newTestCache(t)

	c.Set("trades:m1", 1, time.Minute)
	c.Set("trades:m2", 2, time.Minute)
	c.(*RistrettoCache).Wait()

	c.Clear()

	if _, found := c.Get("trades:m1"); found {
		t.Error("expected miss after clear")
	}
	if _, found := c.Get("trades:m2"); found {
		t.Error("expected miss after clear")
	}
}

func TestRistrettoCache_TTLExpiry(t *testing.T) {
	c := newTestCache(t)

	c.Set("trades:m1", "stale-soon", 10*time.Millisecond)
	c.(*RistrettoCache).Wait()

	time.Sleep(50 * time.Millisecond)

	if _, found := c.Get("trades:m1"); found {
		t.Error("expected entry to expire")
	}
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"
)

// TestRedisCache_RoundTrip exercises the cache against a disposable Redis
// container. Requires Docker; skipped in short mode.
func TestRedisCache_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Skipf("could not start redis container: %v", err)
	}

	url, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	c, err := NewRedisCache(url, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := c.Set(ctx, "advice:abc", "Rest and hydrate.", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.Get(ctx, "advice:abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "Rest and hydrate." {
		t.Errorf("unexpected value: %q", got)
	}

	if err := c.Delete(ctx, "advice:abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get(ctx, "advice:abc"); err == nil {
		t.Error("expected miss after delete")
	}

	if err := c.Ping(); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestLocalCache_Expiry(t *testing.T) {
	c := NewLocalCache(10*time.Millisecond, zap.NewNop())
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 20*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, err := c.Get(ctx, "k"); err != nil || got != "v" {
		t.Fatalf("get before expiry: %q, %v", got, err)
	}

	time.Sleep(40 * time.Millisecond)
	if _, err := c.Get(ctx, "k"); err == nil {
		t.Error("expected expiry")
	}
}

package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/wardrobe/backend/internal/domain"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(0)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	t.Run("string", func(t *testing.T) {
		if err := cache.Set(ctx, "k1", "value", time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := cache.Get(ctx, "k1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "value" {
			t.Errorf("Get() = %v, want value", got)
		}
	})

	t.Run("struct comes back as decoded JSON", func(t *testing.T) {
		analysis := &domain.VisionAnalysis{Label: "navy wool coat", Tier: "premium"}
		if err := cache.Set(ctx, "vision:coat", analysis, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := cache.Get(ctx, "vision:coat")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		m, ok := got.(map[string]interface{})
		if !ok {
			t.Fatalf("Get() type = %T, want map[string]interface{}", got)
		}
		if m["label"] != "navy wool coat" || m["tier"] != "premium" {
			t.Errorf("Get() = %v", m)
		}
	})

	t.Run("numbers decode as float64", func(t *testing.T) {
		if err := cache.Set(ctx, "n", 42, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, _ := cache.Get(ctx, "n")
		if got != float64(42) {
			t.Errorf("Get() = %v (%T), want float64 42", got, got)
		}
	})

	t.Run("unencodable value is rejected", func(t *testing.T) {
		if err := cache.Set(ctx, "bad", make(chan int), time.Minute); err == nil {
			t.Error("Set() error = nil, want encoding error")
		}
	})

	t.Run("expired entry misses", func(t *testing.T) {
		if err := cache.Set(ctx, "short", "v", time.Millisecond); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		time.Sleep(10 * time.Millisecond)
		if _, err := cache.Get(ctx, "short"); err != domain.ErrCacheMiss {
			t.Errorf("Get() error = %v, want ErrCacheMiss", err)
		}
	})
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := newTestCache(t)

	_, err := cache.Get(context.Background(), "non-existent-key")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "delete-test", "value", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Delete(ctx, "delete-test"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if _, err := cache.Get(ctx, "delete-test"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Exists(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	if exists, _ := cache.Exists(ctx, "exists-test"); exists {
		t.Error("Exists() = true, want false for non-existent key")
	}

	if err := cache.Set(ctx, "exists-test", "value", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if exists, _ := cache.Exists(ctx, "exists-test"); !exists {
		t.Error("Exists() = false, want true after setting value")
	}

	if err := cache.Set(ctx, "short-ttl", "value", time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if exists, _ := cache.Exists(ctx, "short-ttl"); exists {
		t.Error("Exists() = true, want false after expiration")
	}
}

func TestMemoryCache_RemoveExpired(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, "keep", "v", time.Hour)
	cache.Set(ctx, "drop", "v", time.Minute)

	cache.removeExpired(time.Now().Add(2 * time.Minute))

	if size := cache.Size(); size != 1 {
		t.Errorf("Size() = %d, want 1", size)
	}
	if exists, _ := cache.Exists(ctx, "keep"); !exists {
		t.Error("expected long-lived entry to survive")
	}
}

func TestMemoryCache_JanitorSweeps(t *testing.T) {
	cache := NewMemoryCache(5 * time.Millisecond)
	defer cache.Close()
	ctx := context.Background()

	cache.Set(ctx, "a", "v", time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for cache.Size() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 after janitor sweep", size)
	}
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	cache := NewMemoryCache(0)
	if err := cache.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := string(rune('a' + id))
			if err := cache.Set(ctx, key, id, time.Minute); err != nil {
				t.Errorf("Concurrent Set() error = %v", err)
			}
			if _, err := cache.Get(ctx, key); err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if size := cache.Size(); size != 10 {
		t.Errorf("Size() = %d, want 10", size)
	}
}

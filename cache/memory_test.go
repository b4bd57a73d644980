package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ZaguanLabs/i18nsync"
	"github.com/google/go-cmp/cmp"
)

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache(time.Hour)

	if err := c.Set("key1", "value1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, ok := c.Get("key1")
	if !ok || val != "value1" {
		t.Errorf("Get(key1) = %q, %v", val, ok)
	}

	val, ok = c.Get("nonexistent")
	if ok || val != "" {
		t.Errorf("Get(nonexistent) = %q, %v", val, ok)
	}
}

func TestMemoryCache_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Second)
	c.now = func() time.Time { return now }

	c.Set("key1", "value1")
	if _, ok := c.Get("key1"); !ok {
		t.Error("Value should be available immediately after set")
	}

	now = now.Add(1100 * time.Millisecond)
	if val, ok := c.Get("key1"); ok || val != "" {
		t.Errorf("Value should be expired after TTL, got %q", val)
	}
	if c.Len() != 0 {
		t.Errorf("Expired entry should be removed, Len = %d", c.Len())
	}
}

func TestMemoryCache_NoTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(0)
	c.now = func() time.Time { return now }

	c.Set("key1", "value1")
	now = now.Add(365 * 24 * time.Hour)

	if _, ok := c.Get("key1"); !ok {
		t.Error("Value should never expire with no TTL")
	}
}

func TestMemoryCache_Entries(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute)
	c.now = func() time.Time { return now }

	c.Set("old", "o")
	now = now.Add(2 * time.Minute)
	c.Set("b", "2")
	c.Set("a", "1")

	want := []i18nsync.KeyEntry{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}
	if diff := cmp.Diff(want, c.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Clear left %d entries", c.Len())
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n)
			c.Set(key, "value")
			c.Get(key)
		}(i)
	}
	wg.Wait()

	if c.Len() != 100 {
		t.Errorf("Len() = %d, want 100", c.Len())
	}
}

// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheBasicOperations(t *testing.T) {
	t.Parallel()

	c := New[string]("test-basic", time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()

	c := New[string]("test-expiration", 50*time.Millisecond)
	defer c.Close()

	c.Set("key1", "value1")
	if _, exists := c.Get("key1"); !exists {
		t.Error("Expected key1 to exist immediately after set")
	}

	time.Sleep(100 * time.Millisecond)

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
	if got := c.GetStats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestCacheClear(t *testing.T) {
	t.Parallel()

	c := New[int]("test-clear", time.Minute)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("Expected a to be cleared")
	}
	stats := c.GetStats()
	if stats.Evictions != 3 || stats.TotalKeys != 0 {
		t.Errorf("stats after Clear = %+v", stats)
	}
}

func TestCacheHitRate(t *testing.T) {
	t.Parallel()

	c := New[int]("test-hitrate", time.Minute)
	defer c.Close()

	if got := c.GetStats().HitRate(); got != 0 {
		t.Errorf("HitRate() with no lookups = %v", got)
	}

	c.Set("k", 1)
	c.Get("k")
	c.Get("k")
	c.Get("k")
	c.Get("nope")

	if got := c.GetStats().HitRate(); got != 75 {
		t.Errorf("HitRate() = %v, want 75", got)
	}
}

func TestCacheSetWithTTLOverridesDefault(t *testing.T) {
	t.Parallel()

	c := New[string]("test-ttl", time.Hour)
	defer c.Close()

	c.SetWithTTL("short", "v", 20*time.Millisecond)
	c.Set("long", "v")
	time.Sleep(50 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("short-lived entry should have expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("default-TTL entry should still exist")
	}
}

func TestCacheCleanupSweepsExpired(t *testing.T) {
	t.Parallel()

	c := newCache[int]("test-sweep", 10*time.Millisecond, 20*time.Millisecond)
	defer c.Close()

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	time.Sleep(80 * time.Millisecond)

	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after sweep", c.Len())
	}
	if c.GetStats().Evictions != 5 {
		t.Errorf("Evictions = %d, want 5", c.GetStats().Evictions)
	}
}

func TestCacheCloseIdempotent(t *testing.T) {
	t.Parallel()

	c := New[int]("test-close", time.Minute)
	c.Close()
	c.Close()
}

func TestCacheConcurrency(t *testing.T) {
	t.Parallel()

	c := New[int]("test-concurrency", time.Minute)
	defer c.Close()

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("k%d", i%10)
				c.Set(key, g*i)
				c.Get(key)
				if i%25 == 0 {
					c.Clear()
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 10 {
		t.Errorf("Len() = %d, want at most 10", c.Len())
	}
}

func TestNewCacher(t *testing.T) {
	t.Parallel()

	disabled := NewCacher[int]("test-noop", false, time.Minute)
	disabled.Set("k", 1)
	if _, ok := disabled.Get("k"); ok {
		t.Error("disabled cacher should never hit")
	}
	if stats := disabled.GetStats(); stats != (Stats{}) {
		t.Errorf("disabled cacher stats = %+v, want zero", stats)
	}
	disabled.Close()

	zeroTTL := NewCacher[int]("test-noop-ttl", true, 0)
	if _, ok := zeroTTL.(Noop[int]); !ok {
		t.Errorf("zero TTL should yield Noop, got %T", zeroTTL)
	}

	enabled := NewCacher[int]("test-enabled", true, time.Minute)
	defer enabled.Close()
	enabled.Set("k", 1)
	if v, ok := enabled.Get("k"); !ok || v != 1 {
		t.Errorf("Get() = %v, %v", v, ok)
	}
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	type params struct {
		Table string
		Dates []string
	}
	a := GenerateKey("load", params{"RNG_DAILY", []string{"2024-01-08", "2024-01-01"}})
	b := GenerateKey("load", params{"RNG_DAILY", []string{"2024-01-08", "2024-01-01"}})
	c := GenerateKey("load", params{"RNG_DAILY", []string{"2024-01-01", "2024-01-08"}})
	d := GenerateKey("sample", params{"RNG_DAILY", []string{"2024-01-08", "2024-01-01"}})

	if a != b {
		t.Errorf("identical params produced different keys: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different params should produce different keys")
	}
	if a == d {
		t.Error("different methods should produce different keys")
	}

	// Channels cannot be JSON encoded; the fallback still yields a key.
	if k := GenerateKey("load", make(chan int)); k == "" {
		t.Error("fallback key should not be empty")
	}
}

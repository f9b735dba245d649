// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package cache

import "time"

// Cacher is the subset of cache behaviour the warehouse loader depends on.
// Both Cache and Noop implement it, so caching can be switched off by
// configuration without changing call sites.
type Cacher[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	Clear()
	Close()
	GetStats() Stats
}

// NewCacher returns a TTL cache when enabled, otherwise a Noop.
func NewCacher[V any](name string, enabled bool, ttl time.Duration) Cacher[V] {
	if !enabled || ttl <= 0 {
		return Noop[V]{}
	}
	return New[V](name, ttl)
}

// Noop never stores anything
type Noop[V any] struct{}

// Get always misses
func (Noop[V]) Get(string) (V, bool) {
	var zero V
	return zero, false
}

// Set discards the value
func (Noop[V]) Set(string, V) {}

// Clear is a no-op
func (Noop[V]) Clear() {}

// Close is a no-op
func (Noop[V]) Close() {}

// GetStats always reports zero counters
func (Noop[V]) GetStats() Stats { return Stats{} }

var (
	_ Cacher[int] = (*Cache[int])(nil)
	_ Cacher[int] = Noop[int]{}
)

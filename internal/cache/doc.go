// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

/*
Package cache provides a thread-safe, typed in-memory cache with TTL expiration.

The warehouse loader uses it to hold recently loaded result sets so that
repeated dashboard requests for the same table and dates do not re-query the
warehouse within the configured window.

# Semantics

  - Entries expire after the TTL given at construction (or per SetWithTTL).
  - Expired entries are removed lazily on Get and by a background sweeper.
  - Stored values are shared between callers and must not be mutated.
  - Close stops the sweeper.

# Keys

GenerateKey hashes a method name plus JSON-encoded parameters into a compact
key:

	key := cache.GenerateKey("load", query)

# Metrics

Hits, misses, evictions and size are exported through the metrics package
under the cache_type label given to New.
*/
package cache

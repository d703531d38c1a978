// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

/*
Package cache provides thread-safe in-memory caching and supporting data
structures with TTL support.

This package implements a simple but effective caching layer for API
responses, plus the dedup and ranking primitives the detection pipeline
leans on during a single run: a bloom filter for cheap probable-seen
checks, an exact-match LRU for confirmed content-hash dedup, a min-heap
for per-source recency capping, a trie and Aho-Corasick automaton for
alias/surface-form matching, and a sliding window counter for rate
limiting.

# Overview

The TTL cache provides:
  - Thread-safe concurrent access (sync.RWMutex)
  - Time-to-live (TTL) expiration for automatic cleanup
  - Simple key-value storage with any value type (interface{})
  - Lazy expiration checking (on Get operations)
  - No dependencies beyond the standard library and github.com/goccy/go-json

# Use Cases

Primary use cases:
  - API summary responses (5-minute TTL)
  - Aggregated run statistics (5-minute TTL)
  - Publisher-tier lookups (permanent until reload)
  - Alias and tier-override lists (10-minute TTL)

# Cache Structure

The cache stores entries with metadata:

	type Entry struct {
	    Data      interface{}  // Cached value (any type)
	    ExpiresAt time.Time    // Expiration time
	}

# Usage Example

Basic caching:

	import "github.com/trendline/detector/internal/cache"

	// Create cache with 5-minute default TTL
	c := cache.New(5 * time.Minute)

	// Store value
	c.Set("run:summary", summary)

	// Retrieve value
	if value, ok := c.Get("run:summary"); ok {
	    summary := value.(RunSummary)
	    // Use cached summary
	}

	// Delete specific key
	c.Delete("run:summary")

	// Clear entire cache
	c.Clear()

API handler caching pattern:

	func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) {
	    cacheKey := "api:trending:v1"

	    // Check cache
	    if cached, ok := h.cache.Get(cacheKey); ok {
	        h.writeJSON(w, http.StatusOK, cached)
	        return
	    }

	    // Cache miss - query the store
	    events, err := h.store.LoadTrendEvents(r.Context())
	    if err != nil {
	        h.writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
	        return
	    }

	    // Store in cache
	    h.cache.Set(cacheKey, events)

	    // Return response
	    h.writeJSON(w, http.StatusOK, events)
	}

Parameterized cache keys:

	// Build cache key from filter parameters
	func buildCacheKey(endpoint string, filter EventFilter) string {
	    return fmt.Sprintf("%s:since=%s:tiers=%v:breaking=%v",
	        endpoint,
	        filter.Since.Format("2006-01-02"),
	        strings.Join(filter.Tiers, ","),
	        filter.BreakingOnly,
	    )
	}

	cacheKey := buildCacheKey("trending:events", filter)
	if cached, ok := cache.Get(cacheKey); ok {
	    return cached.([]TrendEvent), nil
	}

# Cache Invalidation

The cache supports two invalidation strategies:

1. TTL-based expiration (automatic):
  - Items expire after the configured TTL
  - Checked lazily during Get operations
  - A background goroutine started by New also removes expired
    entries every 5 minutes

2. Manual invalidation (on data changes):
  - Clear() removes all cache entries
  - Delete(key) removes specific entry
  - Nothing clears the cache automatically when a detection run
    completes; the caller owning the cache decides when to clear it

Example: Clear cache after a run

	// In the scheduler
	func (s *Scheduler) OnRunCompleted(stats RunStats) {
	    // Clear the API cache since trend events changed
	    s.apiCache.Clear()
	}

# Cache Key Conventions

Use consistent key prefixes for organization:

	api:trending:v1                      // Current trending events
	api:breaking:v1                      // Current breaking events
	run:summary                          // Latest run statistics
	tiers:overrides                      // Publisher tier overrides
	aliases:list                         // Surface-form alias table

# Performance Characteristics

  - Get operation: O(1) hash map lookup + TTL check (~100ns)
  - Set operation: O(1) hash map insert with lock (~200ns)
  - Delete operation: O(1) hash map delete with lock (~150ns)
  - Clear operation: O(1) map reassignment (~50ns)
  - Memory overhead: ~100 bytes per cached item (key + metadata)

# Thread Safety

All cache methods are thread-safe using sync.RWMutex:

  - Get: Acquires read lock (concurrent reads allowed)
  - Set: Acquires write lock (exclusive access)
  - Delete: Acquires write lock (exclusive access)
  - Clear: Acquires write lock (exclusive access)

Multiple goroutines can safely access the cache concurrently.

# TTL Configuration

Recommended TTL values by use case:

	Trending/breaking endpoints: 5 minutes
	  - Matches the detection pipeline's run cadence
	  - Invalidated early when a run completes sooner

	Alias/tier lookups: 10 minutes
	  - Changes infrequently between reloads
	  - Small memory footprint

# Limitations

The current implementation has intentional limitations for simplicity:

  - No maximum cache size limit (grows unbounded)
  - No LRU eviction policy (only TTL-based)
  - Fixed cleanup interval (the background sweep runs every 5 minutes)
  - No cache persistence (in-memory only)
  - No distributed caching (single instance)

These limitations are acceptable at this scale:
  - One run's worth of events at a time (hundreds, not millions)
  - Single instance deployment
  - Entries expire by TTL

# See Also

  - internal/trend: the detection pipeline exercising ExactLRU/MinHeap/Trie;
    no package in this repository currently creates a TTL Cache
*/
package cache

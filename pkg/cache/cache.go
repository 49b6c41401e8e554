// Package cache provides a generic key-to-resource cache with lazy loader
// population. It backs the engine's texture and glyph caches so GPU-bound
// resources are uploaded once and reused across frames.
package cache

import (
	"errors"
	"fmt"
)

// ErrReentrantLoad is returned when a loader re-enters the cache for the
// key it is currently loading. Two logical resources colliding on one key
// is a key-construction defect, so it is surfaced instead of deadlocking
// or double-inserting.
var ErrReentrantLoad = errors.New("cache: reentrant load for the same key")

// LoadFunc produces the resource for a missing key. It runs at most once
// per key between invalidations.
type LoadFunc[K comparable, V any] func(key K) (V, error)

// DisposeFunc releases a resource removed by Invalidate or Clear.
type DisposeFunc[V any] func(value V)

// Stats counts cache activity. Loads differs from Misses only when a
// loader fails: a failed load counts as a miss but not a load.
type Stats struct {
	Hits   int
	Misses int
	Loads  int
}

// Cache is a key-to-resource cache with lazy population. Entries live until
// explicitly invalidated or the cache is cleared; there is no mid-run
// eviction. It is intended for a single render goroutine and is not safe
// for concurrent use, but it is safe for a loader to load other keys from
// the same cache recursively.
type Cache[K comparable, V any] struct {
	entries map[K]V
	loading map[K]struct{}
	load    LoadFunc[K, V]
	dispose DisposeFunc[V]
	stats   Stats
}

// New creates a cache populated by load. dispose may be nil if entries
// need no release step.
func New[K comparable, V any](load LoadFunc[K, V], dispose DisposeFunc[V]) *Cache[K, V] {
	if load == nil {
		panic("cache: nil load func")
	}
	return &Cache[K, V]{
		entries: make(map[K]V),
		loading: make(map[K]struct{}),
		load:    load,
		dispose: dispose,
	}
}

// GetOrCreate returns the resource for key, invoking the loader on the
// first request. Absent an intervening Invalidate, every call with an
// equal key returns the identical value.
func (c *Cache[K, V]) GetOrCreate(key K) (V, error) {
	if v, ok := c.entries[key]; ok {
		c.stats.Hits++
		return v, nil
	}
	c.stats.Misses++

	if _, inFlight := c.loading[key]; inFlight {
		var zero V
		return zero, fmt.Errorf("%w: %v", ErrReentrantLoad, key)
	}

	// Mark the key in flight before running the loader so nested loads of
	// other keys work and same-key reentrancy is caught above.
	c.loading[key] = struct{}{}
	v, err := c.load(key)
	delete(c.loading, key)
	if err != nil {
		var zero V
		return zero, fmt.Errorf("cache: load %v: %w", key, err)
	}

	c.entries[key] = v
	c.stats.Loads++
	return v, nil
}

// Lookup returns the resource for key without loading on a miss.
func (c *Cache[K, V]) Lookup(key K) (V, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Invalidate removes and disposes the entry for key. Removing an absent
// key is a no-op, not an error.
func (c *Cache[K, V]) Invalidate(key K) {
	v, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	if c.dispose != nil {
		c.dispose(v)
	}
}

// Clear disposes every entry. Counters are left intact so shutdown paths
// can still report totals.
func (c *Cache[K, V]) Clear() {
	for k, v := range c.entries {
		delete(c.entries, k)
		if c.dispose != nil {
			c.dispose(v)
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return len(c.entries)
}

// Stats returns a copy of the activity counters.
func (c *Cache[K, V]) Stats() Stats {
	return c.stats
}

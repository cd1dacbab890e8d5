// Package cache provides the bounded memoization primitive used by the
// shape engine.
//
// The engine memoizes two kinds of expensive, pure computations: compiled
// coordinate transforms (keyed by the resolved CRS pair) and per-dataset
// radius estimates (keyed by dataset identity). Both are immutable once
// computed, so the only cache policy needed is a capacity bound: Cache is a
// strict-LRU map with a fixed limit. Evicting an entry is always safe
// because every value can be recomputed from its key.
//
//	c := cache.New[string, int](64)
//	v, err := c.GetOrCreate("key", func() (int, error) { return compile() })
//
// Cache is safe for concurrent use. It must not be copied after creation.
package cache

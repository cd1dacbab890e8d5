package cache

import "sync"

// Cache is a generic thread-safe map with strict LRU eviction.
// When the number of entries exceeds the limit, the least recently
// used entry is evicted.
//
// Cache is safe for concurrent use.
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*node[K, V]
	list    lruList[K, V]
	limit   int
}

// New creates a cache holding at most limit entries.
// A limit of 0 means unbounded.
func New[K comparable, V any](limit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*node[K, V]),
		limit:   limit,
	}
}

// Get retrieves a value and marks it most recently used.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.list.moveToFront(n)
	return n.value, true
}

// Set stores a value, evicting the least recently used entry if the
// cache is over its limit afterwards.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

// GetOrCreate returns the cached value for key, calling create to
// produce it on a miss. create runs under the cache lock so that a
// value is never built twice; it must not call back into the cache.
// A create error is returned to the caller and nothing is stored, so
// a later call retries.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		c.list.moveToFront(n)
		return n.value, nil
	}
	value, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.set(key, value)
	return value, nil
}

// Delete removes an entry. Returns true if the entry existed.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		return false
	}
	c.list.remove(n)
	delete(c.entries, key)
	return true
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*node[K, V])
	c.list = lruList[K, V]{}
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the entry limit (0 means unbounded).
func (c *Cache[K, V]) Capacity() int { return c.limit }

// set stores a value and evicts down to the limit.
// Caller must hold c.mu.
func (c *Cache[K, V]) set(key K, value V) {
	if n, ok := c.entries[key]; ok {
		n.value = value
		c.list.moveToFront(n)
		return
	}
	n := &node[K, V]{key: key, value: value}
	c.entries[key] = n
	c.list.pushFront(n)

	for c.limit > 0 && len(c.entries) > c.limit {
		old := c.list.removeOldest()
		if old == nil {
			break
		}
		delete(c.entries, old.key)
	}
}

package cache

// node is a cache entry threaded through a doubly-linked LRU list.
// Storing the key on the node gives O(1) eviction from the map.
type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// lruList is a doubly-linked eviction list.
// The head is the most recently used entry, the tail the least.
// Not thread-safe; the owning Cache synchronizes access.
type lruList[K comparable, V any] struct {
	head *node[K, V]
	tail *node[K, V]
}

// pushFront inserts a new node at the front (most recently used).
func (l *lruList[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
}

// moveToFront marks an existing node most recently used.
func (l *lruList[K, V]) moveToFront(n *node[K, V]) {
	if n == l.head {
		return
	}
	l.unlink(n)
	l.pushFront(n)
}

// remove unlinks a node from the list.
func (l *lruList[K, V]) remove(n *node[K, V]) {
	l.unlink(n)
}

// removeOldest unlinks and returns the least recently used node,
// or nil if the list is empty.
func (l *lruList[K, V]) removeOldest() *node[K, V] {
	n := l.tail
	if n == nil {
		return nil
	}
	l.unlink(n)
	return n
}

func (l *lruList[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}

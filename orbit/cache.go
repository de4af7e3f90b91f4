package orbit

import (
	"container/list"
	"sync"
)

// Cache is a bounded set with least-recently-used eviction, keyed by cobasis
// key strings. Insertion and lookup run in O(1); eviction only ever costs
// the engine a repeated invariant computation, never a wrong answer.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	order   *list.List               // front = least recently used
	index   map[string]*list.Element // key -> order element
}

// NewCache returns a cache of the given capacity. A capacity below 1 is
// coerced to 1.
func NewCache(maxSize int) *Cache {
	if maxSize < 1 {
		maxSize = 1
	}

	return &Cache{
		maxSize: maxSize,
		order:   list.New(),
		index:   make(map[string]*list.Element, maxSize),
	}
}

// Insert makes key the most recently used entry and reports whether it was
// already present. On overflow the least-recently-used entry is evicted.
func (c *Cache) Insert(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		c.order.MoveToBack(el)

		return true
	}
	if c.order.Len() == c.maxSize {
		front := c.order.Front()
		delete(c.index, front.Value.(string))
		c.order.Remove(front)
	}
	c.index[key] = c.order.PushBack(key)

	return false
}

// Lookup reports whether key is present, touching it on a hit.
func (c *Cache) Lookup(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if ok {
		c.order.MoveToBack(el)
	}

	return ok
}

// Remove deletes key and reports whether it was present.
func (c *Cache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		return false
	}
	delete(c.index, key)
	c.order.Remove(el)

	return true
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// Cap returns the maximum number of entries.
func (c *Cache) Cap() int { return c.maxSize }

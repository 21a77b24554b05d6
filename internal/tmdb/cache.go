package tmdb

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	key       string
	data      any
	expiresAt time.Time
}

// cache is a session-scoped response cache bounded by TTL and entry count.
// The least recently used entry is evicted when full.
type cache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used
	ttl     time.Duration
	max     int
	now     func() time.Time
}

// newCache returns nil when ttl or size is zero; a nil cache stores nothing.
func newCache(ttl time.Duration, size int) *cache {
	if ttl <= 0 || size <= 0 {
		return nil
	}
	return &cache{
		entries: make(map[string]*list.Element, size),
		order:   list.New(),
		ttl:     ttl,
		max:     size,
		now:     time.Now,
	}
}

func (c *cache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.order.Remove(el)
		delete(c.entries, key)
		return nil, false
	}
	c.order.MoveToFront(el)
	return entry.data, true
}

func (c *cache) Set(key string, value any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*cacheEntry)
		entry.data = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, data: value, expiresAt: expiresAt})
	for c.order.Len() > c.max {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// DeletePrefix drops every entry whose key starts with prefix and returns how
// many were dropped.
func (c *cache) DeletePrefix(prefix string) int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, el := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.order.Remove(el)
			delete(c.entries, key)
			n++
		}
	}
	return n
}

func (c *cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Package cache provides the layered caching infrastructure: a local
// in-memory LRU in front of Redis.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// LocalCache is a thread-safe in-memory cache with TTL and LRU eviction.
type LocalCache struct {
	items   map[string]*list.Element
	lru     *list.List
	maxSize int
	mu      sync.Mutex
}

type localEntry struct {
	key       string
	data      []byte
	expiresAt time.Time
}

// NewLocalCache creates a local cache bounded to maxSize entries.
func NewLocalCache(maxSize int) *LocalCache {
	if maxSize <= 0 {
		maxSize = 500
	}
	return &LocalCache{
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

// Get returns the cached value and whether it was present and unexpired.
func (c *LocalCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*localEntry)
	if time.Now().After(entry.expiresAt) {
		c.removeElement(elem)
		return nil, false
	}

	c.lru.MoveToFront(elem)
	return entry.data, true
}

// Set stores a value with the given TTL, evicting the least recently
// used entry when the cache is full.
func (c *LocalCache) Set(key string, data []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*localEntry)
		entry.data = data
		entry.expiresAt = expiresAt
		c.lru.MoveToFront(elem)
		return
	}

	elem := c.lru.PushFront(&localEntry{key: key, data: data, expiresAt: expiresAt})
	c.items[key] = elem

	for len(c.items) > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Delete removes a key from the cache.
func (c *LocalCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Exists reports whether a key is present and unexpired.
func (c *LocalCache) Exists(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Size returns the current number of entries.
func (c *LocalCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear removes all entries.
func (c *LocalCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
}

// CleanupExpired removes all expired entries and returns how many were
// removed.
func (c *LocalCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for elem := c.lru.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*localEntry).expiresAt) {
			c.removeElement(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

// AutoCleanup starts a background sweep of expired entries. Closing the
// returned channel stops it.
func (c *LocalCache) AutoCleanup(interval time.Duration) chan struct{} {
	stop := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.CleanupExpired()
			case <-stop:
				return
			}
		}
	}()

	return stop
}

func (c *LocalCache) removeElement(elem *list.Element) {
	entry := elem.Value.(*localEntry)
	delete(c.items, entry.key)
	c.lru.Remove(elem)
}

package client

import (
	"sync"

	"github.com/gregjones/httpcache"
)

// SessionCache is an in-memory httpcache.Cache that can be emptied in one
// call.
type SessionCache struct {
	mu    sync.RWMutex
	items map[string][]byte
}

var _ httpcache.Cache = (*SessionCache)(nil)

func NewSessionCache() *SessionCache {
	return &SessionCache{items: make(map[string][]byte)}
}

func (c *SessionCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.items[key]
	return b, ok
}

func (c *SessionCache) Set(key string, resp []byte) {
	c.mu.Lock()
	c.items[key] = resp
	c.mu.Unlock()
}

func (c *SessionCache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Purge removes every entry.
func (c *SessionCache) Purge() {
	c.mu.Lock()
	clear(c.items)
	c.mu.Unlock()
}

// Len reports the number of cached responses.
func (c *SessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

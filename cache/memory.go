package cache

import (
	"sync"
	"time"
)

type memEntry struct {
	value string
	at    time.Time
}

// Memory is a thread-safe in-process cache with optional TTL.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	ttl     time.Duration
}

// NewMemory creates an in-process cache. A non-positive ttl means
// entries never expire.
func NewMemory(ttl time.Duration) *Memory {
	if ttl < 0 {
		ttl = 0
	}
	return &Memory{
		entries: make(map[string]memEntry),
		ttl:     ttl,
	}
}

// Get retrieves a value, expiring it lazily.
func (c *Memory) Get(key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if c.ttl > 0 && time.Since(e.at) > c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}
	return e.value, true
}

// Set stores a value.
func (c *Memory) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memEntry{value: value, at: time.Now()}
	return nil
}

// Len returns the entry count, expired entries included.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ Cache = (*Memory)(nil)

package client

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
)

// Cache stores query results keyed by operation. It can be extracted to
// serialized state on one side of the isomorphic boundary and restored on
// the other, so a hydrated client skips its initial round trips.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]json.RawMessage
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]json.RawMessage)}
}

// Get returns the cached data for req, if any.
func (c *Cache) Get(req Request) (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.entries[CacheKey(req)]
	return data, ok
}

// Set stores the data for req.
func (c *Cache) Set(req Request, data json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[CacheKey(req)] = data
}

// Len returns the number of cached operations.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Extract serializes the cache contents for hydration.
func (c *Cache) Extract() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return json.Marshal(c.entries)
}

// Restore seeds the cache from state produced by Extract. Existing
// entries for the same operations are overwritten.
func (c *Cache) Restore(state []byte) error {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(state, &entries); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range entries {
		c.entries[k] = v
	}
	return nil
}

// CacheKey derives a stable key from the operation text and variables.
// Fields are hashed with separators so adjacent fields cannot bleed into
// each other and collide.
func CacheKey(req Request) string {
	vars, _ := json.Marshal(req.Variables)
	h := sha256.New()
	h.Write([]byte(req.Query))
	h.Write([]byte{0})
	h.Write(vars)
	h.Write([]byte{0})
	h.Write([]byte(req.OperationName))
	return hex.EncodeToString(h.Sum(nil))
}

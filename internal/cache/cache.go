// Package cache provides content keys and a bounded in-memory cache for
// provider results.
package cache

import (
	"encoding/hex"
	"strings"
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/zeebo/blake3"
)

// DefaultSize is the number of entries kept when no size is given.
const DefaultSize = 100

// Key returns the BLAKE3-256 hex digest of the trimmed text followed by
// any qualifiers (such as a target language). Only surrounding whitespace
// is ignored; near-duplicates are matched by similarity, not by key.
func Key(text string, qualifiers ...string) string {
	parts := append([]string{strings.TrimSpace(text)}, qualifiers...)
	sum := blake3.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

// LRU is a size-bounded map that evicts the least recently used entry.
// It is safe for concurrent use.
type LRU[V any] struct {
	mu    sync.Mutex
	cache *lru.Cache
}

// NewLRU returns an LRU holding at most size entries.
func NewLRU[V any](size int) *LRU[V] {
	if size <= 0 {
		size = DefaultSize
	}
	return &LRU[V]{cache: lru.New(size)}
}

// Get returns the value for key and marks it recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.cache.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// Add stores value under key, evicting the oldest entry when full.
func (c *LRU[V]) Add(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(key, value)
}

// Remove deletes key.
func (c *LRU[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Remove(key)
}

// Len returns the number of entries.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

// Clear removes every entry.
func (c *LRU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Clear()
}

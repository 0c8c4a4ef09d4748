package session

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultCacheSize = 10000
	DefaultCacheTTL  = 30 * time.Minute

	lockStripes = 256
)

// CacheConfig bounds a Cache. Zero values take the defaults.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// Cache keeps per-session state in memory, bounded by size and idle time.
// The store stays the source of truth: an evicted session is loaded again on
// its next access.
//
// Lock serializes work on one session. Locks are striped by session id and
// live outside the LRU, so evicting an entry never drops a lock in use.
type Cache[V any] struct {
	lru   *expirable.LRU[string, V]
	locks [lockStripes]sync.Mutex
}

func NewCache[V any](cfg CacheConfig) *Cache[V] {
	if cfg.Size <= 0 {
		cfg.Size = DefaultCacheSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	return &Cache[V]{lru: expirable.NewLRU[string, V](cfg.Size, nil, cfg.TTL)}
}

// Lock locks sessionID and returns the unlock function.
func (c *Cache[V]) Lock(sessionID string) (unlock func()) {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	mu := &c.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}

func (c *Cache[V]) Get(sessionID string) (V, bool) { return c.lru.Get(sessionID) }

// Put stores v and restarts its idle timer.
func (c *Cache[V]) Put(sessionID string, v V) { c.lru.Add(sessionID, v) }

func (c *Cache[V]) Remove(sessionID string) { c.lru.Remove(sessionID) }

func (c *Cache[V]) Len() int { return c.lru.Len() }

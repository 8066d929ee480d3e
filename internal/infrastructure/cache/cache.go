package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/skillswap/skillswap/internal/domain/readcache"
)

const (
	DefaultSize = 10000
	DefaultTTL  = 30 * time.Second
)

// TTL is a size-bounded read-through cache whose entries expire after a fixed TTL.
// mu orders conditional sets against invalidations; plain reads go straight
// to the LRU, which has its own lock.
type TTL struct {
	lru *expirable.LRU[string, interface{}]

	mu    sync.Mutex
	epoch uint64
}

var _ readcache.Cache = (*TTL)(nil)

// New creates a cache holding at most size entries for ttl each.
func New(size int, ttl time.Duration) *TTL {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTL{lru: expirable.NewLRU[string, interface{}](size, nil, ttl)}
}

func (c *TTL) Get(key string) (interface{}, bool) {
	return c.lru.Get(key)
}

func (c *TTL) Set(key string, value interface{}) {
	c.lru.Add(key, value)
}

func (c *TTL) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

func (c *TTL) SetIfEpoch(key string, value interface{}, epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return false
	}
	c.lru.Add(key, value)
	return true
}

func (c *TTL) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	removed := 0
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) && c.lru.Remove(key) {
			removed++
		}
	}
	return removed
}

// Len returns the number of live entries.
func (c *TTL) Len() int {
	return c.lru.Len()
}

package orderbook

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultFreshness is how long a fetched book stays usable. Decision cycles
// landing inside the window share one fetch.
const DefaultFreshness = 2 * time.Second

// Cache is a time-boxed snapshot cache of full order books, keyed per
// token so one token's cycle can never read another token's orders.
type Cache struct {
	lru *expirable.LRU[uint64, []Order]
}

// NewCache builds a cache whose entries expire after ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[uint64, []Order](128, nil, ttl)}
}

// Get returns the cached book for a token, or false once the entry has
// aged past the freshness window.
func (c *Cache) Get(tokenID uint64) ([]Order, bool) {
	return c.lru.Get(tokenID)
}

// Put stores a freshly fetched book.
func (c *Cache) Put(tokenID uint64, orders []Order) {
	c.lru.Add(tokenID, orders)
}

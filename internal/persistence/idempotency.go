package persistence

import (
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/hfn-events/event-report-bot/internal/model"
)

// IdempotencyCache remembers committed records by replay key for a while.
type IdempotencyCache struct {
	items *cache.Cache
}

// NewIdempotencyCache creates a cache whose entries expire after ttl.
func NewIdempotencyCache(ttl time.Duration) *IdempotencyCache {
	return &IdempotencyCache{items: cache.New(ttl, ttl/2)}
}

// Get returns the record committed under key.
func (c *IdempotencyCache) Get(key string) (model.EventRecord, bool) {
	v, ok := c.items.Get(key)
	if !ok {
		return model.EventRecord{}, false
	}
	rec, ok := v.(model.EventRecord)
	return rec, ok
}

// Put records that key committed rec.
func (c *IdempotencyCache) Put(key string, rec model.EventRecord) {
	c.items.SetDefault(key, rec)
}

package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryCache is a process-local cache. Entries are not shared between processes.
type MemoryCache struct {
	items *ttlcache.Cache[string, []byte]
}

// NewMemoryCache creates a cache and starts its expiry loop. Call Close to stop it.
func NewMemoryCache() *MemoryCache {
	items := ttlcache.New(
		// Entries live for a fixed window after Set; reads do not extend it.
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go items.Start()
	return &MemoryCache{items: items}
}

// Get implements Cache.Get.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := c.items.Get(key)
	if item == nil || item.IsExpired() {
		return nil, false, nil
	}
	return item.Value(), true, nil
}

// Set implements Cache.Set.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.items.Set(key, value, ttl)
	return nil
}

// Delete implements Cache.Delete.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.items.Delete(key)
	return nil
}

// Len returns the number of live entries.
func (c *MemoryCache) Len() int {
	return c.items.Len()
}

// Close stops the expiry loop. The cache must not be used afterwards.
func (c *MemoryCache) Close() {
	c.items.Stop()
}

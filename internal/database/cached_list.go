package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"suggestion-tracker/internal/cache"
	"suggestion-tracker/internal/metrics"
)

// cachedList is the bson envelope a list is stored in. Encoding the list
// keeps cached values isolated from slices handed to callers.
type cachedList[T any] struct {
	Items []T `bson:"items"`
}

// listCache is the cache-aside plumbing shared by the repositories. Cache
// failures are logged and treated as misses; they never fail the caller.
type listCache struct {
	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.Recorder
	log     *logrus.Entry
}

func cacheGetList[T any](ctx context.Context, lc listCache, name, key string) ([]T, bool) {
	if lc.cache == nil {
		return nil, false
	}
	raw, ok, err := lc.cache.Get(ctx, key)
	if err != nil {
		lc.log.WithError(err).WithField("key", key).Warn("Cache read failed, falling back to store")
		lc.metrics.CacheLookup(name, metrics.ResultError)
		return nil, false
	}
	if !ok {
		lc.metrics.CacheLookup(name, metrics.ResultMiss)
		return nil, false
	}
	var list cachedList[T]
	if err := bson.Unmarshal(raw, &list); err != nil {
		lc.log.WithError(err).WithField("key", key).Warn("Cached value undecodable, falling back to store")
		lc.metrics.CacheLookup(name, metrics.ResultError)
		return nil, false
	}
	lc.metrics.CacheLookup(name, metrics.ResultHit)
	if list.Items == nil {
		list.Items = []T{}
	}
	return list.Items, true
}

func cacheSetList[T any](ctx context.Context, lc listCache, key string, items []T) {
	if lc.cache == nil {
		return
	}
	raw, err := bson.Marshal(cachedList[T]{Items: items})
	if err != nil {
		lc.log.WithError(err).WithField("key", key).Warn("Failed to encode list for cache")
		return
	}
	if err := lc.cache.Set(ctx, key, raw, lc.ttl); err != nil {
		lc.log.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

func cacheDelete(ctx context.Context, lc listCache, key string) {
	if lc.cache == nil {
		return
	}
	if err := lc.cache.Delete(ctx, key); err != nil {
		lc.log.WithError(err).WithField("key", key).Warn("Cache invalidation failed")
	}
}

// loadList serves key from the cache or runs query and populates the cache.
// Concurrent misses may all run query; the last Set wins.
func loadList[T any](ctx context.Context, lc listCache, name, key string, query func(ctx context.Context) ([]T, error)) ([]T, error) {
	if items, ok := cacheGetList[T](ctx, lc, name, key); ok {
		return items, nil
	}
	items, err := query(ctx)
	if err != nil {
		return nil, err
	}
	cacheSetList(ctx, lc, key, items)
	return items, nil
}

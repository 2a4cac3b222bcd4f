package storage

import (
	"time"

	"github.com/maypok86/otter/v2"
)

// Cache is a small TTL cache over otter, used for app tokens and upstream
// API responses so a burst of renderer requests does not hammer the
// providers.
type Cache[T any] struct {
	inner *otter.Cache[string, T]
}

func NewCache[T any](capacity int32, ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		inner: otter.Must(&otter.Options[string, T]{
			InitialCapacity:  int(capacity),
			ExpiryCalculator: otter.ExpiryWriting[string, T](ttl),
		}),
	}
}

func (c *Cache[T]) Set(key string, val T) {
	c.inner.Set(key, val)
}

func (c *Cache[T]) Get(key string) (T, bool) {
	return c.inner.GetIfPresent(key)
}

func (c *Cache[T]) Invalidate(key string) {
	c.inner.Invalidate(key)
}

func (c *Cache[T]) Clear() {
	c.inner.InvalidateAll()
}

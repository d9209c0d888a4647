package sheets

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a successful load is served before refetching.
const DefaultTTL = 300 * time.Second

// Entry is one cached load result.
type Entry[T any] struct {
	Value     T
	FetchedAt time.Time
	TTL       time.Duration
}

// Fresh reports whether the entry is still valid at now.
func (e *Entry[T]) Fresh(now time.Time) bool {
	return e != nil && now.Sub(e.FetchedAt) < e.TTL
}

// Cache holds at most one load result and refreshes it once it expires.
// Concurrent refreshes share a single call to the loader; failures are
// returned to every waiting caller and never stored.
type Cache[T any] struct {
	ttl  time.Duration
	load func(context.Context) (T, error)

	mu    sync.RWMutex
	entry *Entry[T]
	group singleflight.Group
}

func NewCache[T any](ttl time.Duration, load func(context.Context) (T, error)) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[T]{ttl: ttl, load: load}
}

// GetOrRefresh returns the cached value when it is fresh at now, otherwise it
// calls the loader. The boolean reports whether the value came from the cache.
func (c *Cache[T]) GetOrRefresh(ctx context.Context, now time.Time) (T, bool, error) {
	c.mu.RLock()
	e := c.entry
	c.mu.RUnlock()
	if e.Fresh(now) {
		return e.Value, true, nil
	}

	v, err := c.do(ctx, now, false)
	return v, false, err
}

// do runs the shared load. The load itself is detached from ctx so one caller
// going away cannot fail the others waiting on it; ctx only bounds how long
// this caller waits. The loader is expected to carry its own timeout.
func (c *Cache[T]) do(ctx context.Context, now time.Time, force bool) (T, error) {
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("load", func() (interface{}, error) {
		if !force {
			c.mu.RLock()
			e := c.entry
			c.mu.RUnlock()
			if e.Fresh(now) {
				return e.Value, nil
			}
		}

		val, err := c.load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entry = &Entry[T]{Value: val, FetchedAt: now, TTL: c.ttl}
		c.mu.Unlock()
		return val, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Peek returns the current entry without refreshing it.
func (c *Cache[T]) Peek() *Entry[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entry
}

// Invalidate drops the cached entry so the next call reloads.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
}

// Refresh calls the loader regardless of freshness and stores the result.
// A failed refresh leaves the current entry in place.
func (c *Cache[T]) Refresh(ctx context.Context, now time.Time) (T, error) {
	return c.do(ctx, now, true)
}

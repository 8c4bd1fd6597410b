// Package cache provides a deduplicating asynchronous resource cache.
//
// A ResourceCache memoizes the result of a loader per string key. The first
// request for a key stores a pending Future before the loader starts, so any
// number of concurrent requests for that key share a single loader run.
// Entries are never evicted on their own; a failed load stays cached until
// it is explicitly invalidated.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ErrLoaderPanic is returned by a Future whose loader panicked.
var ErrLoaderPanic = errors.New("cache: loader panicked")

// Loader produces the value for a key. It runs on its own goroutine.
type Loader[T any] func(ctx context.Context, key string) (T, error)

// Future is the pending or settled result of one loader run.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Done is closed once the loader has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the loader settles or ctx is done.
// Cancelling ctx stops the wait only; the load keeps running.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Settled reports whether the loader has finished.
func (f *Future[T]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *Future[T]) settle(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Option configures a ResourceCache.
type Option func(*options)

type options struct {
	maxLoads int64
}

// WithMaxConcurrentLoads bounds how many loaders run at the same time.
// Values below 1 mean unbounded.
func WithMaxConcurrentLoads(n int) Option {
	return func(o *options) {
		o.maxLoads = int64(n)
	}
}

// ResourceCache memoizes one Future per key.
type ResourceCache[T any] struct {
	mu      sync.RWMutex
	entries map[string]*Future[T]
	slots   *semaphore.Weighted
	ctx     context.Context
}

// New creates an empty cache. Loaders receive ctx, so it should outlive
// every load (usually context.Background or the application context).
func New[T any](ctx context.Context, opts ...Option) *ResourceCache[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &ResourceCache[T]{
		entries: make(map[string]*Future[T]),
		ctx:     ctx,
	}
	if o.maxLoads > 0 {
		c.slots = semaphore.NewWeighted(o.maxLoads)
	}
	return c
}

// GetOrLoad returns the Future stored for key. If there is none, it stores a
// new pending Future and then starts loader for it. The loader is never run
// again for key while the entry exists, even if it failed.
func (c *ResourceCache[T]) GetOrLoad(key string, loader Loader[T]) *Future[T] {
	c.mu.RLock()
	if f, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		return f
	}
	c.mu.RUnlock()

	c.mu.Lock()
	if f, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return f
	}
	f := newFuture[T]()
	c.entries[key] = f
	c.mu.Unlock()

	go c.run(key, f, loader)
	return f
}

func (c *ResourceCache[T]) run(key string, f *Future[T], loader Loader[T]) {
	var (
		value T
		err   error
	)
	defer func() {
		if r := recover(); r != nil {
			var zero T
			f.settle(zero, fmt.Errorf("%w: %s: %v", ErrLoaderPanic, key, r))
		}
	}()

	if c.slots != nil {
		if err := c.slots.Acquire(c.ctx, 1); err != nil {
			f.settle(value, fmt.Errorf("failed to start load of %s: %w", key, err))
			return
		}
		defer c.slots.Release(1)
	}

	value, err = loader(c.ctx, key)
	f.settle(value, err)
}

// Has reports whether key has an entry, pending or settled.
func (c *ResourceCache[T]) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Invalidate drops the entry for key so the next GetOrLoad runs a fresh
// loader. A load still in flight settles its old Future as usual.
func (c *ResourceCache[T]) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	return true
}

// Len returns the number of entries.
func (c *ResourceCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the cached keys in sorted order.
func (c *ResourceCache[T]) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// FetchFunc loads the value for a key from the upstream.
type FetchFunc[T any] func(ctx context.Context) (*T, error)

// envelope wraps a cached value with the time it was fetched. Entries are
// retained past their freshness window so stale values can be served while
// a refetch runs.
type envelope[T any] struct {
	Data      *T        `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
}

// call tracks one in-flight fetch; concurrent requesters for the same key
// wait on done instead of issuing duplicate requests.
type call[T any] struct {
	done chan struct{}
	val  *T
	err  error
}

// Query is a keyed, deduplicated fetch-through cache. Guarantees:
//
//   - At most one fetch is in flight per key; concurrent callers attach to
//     the existing fetch.
//   - A successfully fetched entry is fresh for the freshness window;
//     within it, requests are served from cache without a network call.
//   - After the window, the stale value is served immediately while one
//     background refetch runs (stale-while-revalidate).
//   - Last fetch wins per key: a completed fetch never overwrites the
//     result of a fetch that started after it.
type Query[T any] struct {
	store  *TypedCache[envelope[T]]
	fresh  time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	inflight map[string]*call[T]
	gen      map[string]uint64
}

// DefaultFreshFor is the freshness window used when none is configured.
const DefaultFreshFor = 60 * time.Second

// NewQuery creates a Query on top of backend. Entries are considered fresh
// for freshFor and retained for ten times that, so stale values remain
// servable while they revalidate.
func NewQuery[T any](backend Cacher, freshFor time.Duration, logger *slog.Logger) *Query[T] {
	if freshFor <= 0 {
		freshFor = DefaultFreshFor
	}
	return &Query[T]{
		store:    NewTypedCache[envelope[T]](backend, 10*freshFor),
		fresh:    freshFor,
		logger:   logger,
		inflight: make(map[string]*call[T]),
		gen:      make(map[string]uint64),
	}
}

// Get returns the cached value for key, fetching it when absent. Stale
// values are returned immediately with a background refetch scheduled.
func (q *Query[T]) Get(ctx context.Context, key string, fetch FetchFunc[T]) (*T, error) {
	if env, ok := q.store.Get(ctx, key); ok {
		if time.Since(env.FetchedAt) < q.fresh {
			return env.Data, nil
		}
		q.refreshAsync(key, fetch)
		return env.Data, nil
	}

	c, gen, started := q.join(key)
	if started {
		q.run(ctx, key, c, gen, fetch)
		return c.val, c.err
	}

	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate removes the entry for key and discards any in-flight result
// for it.
func (q *Query[T]) Invalidate(ctx context.Context, key string) {
	q.mu.Lock()
	q.gen[key]++
	q.mu.Unlock()
	_ = q.store.Delete(ctx, key)
}

// join returns the in-flight call for key, creating one if none exists.
// started is true for the caller that must run the fetch.
func (q *Query[T]) join(key string) (c *call[T], gen uint64, started bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if c, ok := q.inflight[key]; ok {
		return c, 0, false
	}

	c = &call[T]{done: make(chan struct{})}
	q.inflight[key] = c
	q.gen[key]++
	return c, q.gen[key], true
}

// run executes the fetch for an in-flight call and publishes the result.
// The store is only written when no newer fetch generation has started for
// the key in the meantime.
func (q *Query[T]) run(ctx context.Context, key string, c *call[T], gen uint64, fetch FetchFunc[T]) {
	val, err := fetch(ctx)

	q.mu.Lock()
	current := q.gen[key]
	delete(q.inflight, key)
	q.mu.Unlock()

	c.val, c.err = val, err
	if err == nil && current == gen {
		if setErr := q.store.Set(ctx, key, &envelope[T]{Data: val, FetchedAt: time.Now()}); setErr != nil && q.logger != nil {
			q.logger.Warn("failed to store cache entry", "key", key, "error", setErr)
		}
	}
	close(c.done)
}

// refreshAsync starts a deduplicated background refetch for key. The
// caller is not blocked and never observes the refetch's error; a failed
// revalidation leaves the stale entry in place.
func (q *Query[T]) refreshAsync(key string, fetch FetchFunc[T]) {
	c, gen, started := q.join(key)
	if !started {
		return // a refetch is already in flight
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		q.run(ctx, key, c, gen, fetch)
		if c.err != nil && q.logger != nil {
			q.logger.Warn("background revalidation failed", "key", key, "error", c.err)
		}
	}()
}

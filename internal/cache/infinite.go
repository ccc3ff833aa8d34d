// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Page is one page of a paginated listing. NextPage is nil on the
// terminal page.
type Page[T any] struct {
	Items    []T  `json:"items"`
	NextPage *int `json:"next_page"`
}

// Chain is the accumulated page sequence of one infinite listing entry.
// FetchedAt records when the chain was (re)started from its first page.
type Chain[T any] struct {
	Pages     []Page[T] `json:"pages"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Items flattens the chain's pages in order.
func (c *Chain[T]) Items() []T {
	var n int
	for _, p := range c.Pages {
		n += len(p.Items)
	}
	items := make([]T, 0, n)
	for _, p := range c.Pages {
		items = append(items, p.Items...)
	}
	return items
}

// HasMore reports whether another page can be fetched.
func (c *Chain[T]) HasMore() bool {
	_, ok := c.next()
	return ok
}

func (c *Chain[T]) next() (int, bool) {
	if len(c.Pages) == 0 {
		return 0, false
	}
	last := c.Pages[len(c.Pages)-1]
	if last.NextPage == nil {
		return 0, false
	}
	return *last.NextPage, true
}

// PageFetchFunc loads one page of a listing from the upstream.
type PageFetchFunc[T any] func(ctx context.Context, page int) (*Page[T], error)

// InfiniteQuery caches paginated listings as page chains. First-page loads
// follow the same rules as Query: deduplicated in flight, fresh for the
// configured window, revalidated in the background when stale. A
// background revalidation restarts the chain from its first page.
// Next-page appends are coalesced per key, and requesting the next page on
// a terminal chain is a no-op that returns the chain unchanged.
type InfiniteQuery[T any] struct {
	store  *TypedCache[Chain[T]]
	fresh  time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	inflight map[string]*call[Chain[T]]
	gen      map[string]uint64
}

// NewInfiniteQuery creates an InfiniteQuery on top of backend with the
// same freshness and retention behavior as NewQuery.
func NewInfiniteQuery[T any](backend Cacher, freshFor time.Duration, logger *slog.Logger) *InfiniteQuery[T] {
	if freshFor <= 0 {
		freshFor = DefaultFreshFor
	}
	return &InfiniteQuery[T]{
		store:    NewTypedCache[Chain[T]](backend, 10*freshFor),
		fresh:    freshFor,
		logger:   logger,
		inflight: make(map[string]*call[Chain[T]]),
		gen:      make(map[string]uint64),
	}
}

// Get returns the chain for key, loading its first page when absent.
// Stale chains are returned immediately with a background restart of the
// chain scheduled.
func (q *InfiniteQuery[T]) Get(ctx context.Context, key string, fetch PageFetchFunc[T]) (*Chain[T], error) {
	if chain, ok := q.store.Get(ctx, key); ok {
		if time.Since(chain.FetchedAt) < q.fresh {
			return chain, nil
		}
		q.refreshAsync(key, fetch)
		return chain, nil
	}
	return q.loadFirst(ctx, key, fetch)
}

// FetchNextPage appends the next page to the chain for key. Concurrent
// calls for the same key coalesce into one request. When the chain is
// already terminal it is returned as-is without a network call, and an
// absent chain is loaded from its first page.
func (q *InfiniteQuery[T]) FetchNextPage(ctx context.Context, key string, fetch PageFetchFunc[T]) (*Chain[T], error) {
	chain, ok := q.store.Get(ctx, key)
	if !ok {
		return q.loadFirst(ctx, key, fetch)
	}

	next, more := chain.next()
	if !more {
		return chain, nil
	}

	q.mu.Lock()
	if c, ok := q.inflight[key]; ok {
		q.mu.Unlock()
		select {
		case <-c.done:
			if c.err != nil {
				return chain, c.err
			}
			return c.val, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	c := &call[Chain[T]]{done: make(chan struct{})}
	q.inflight[key] = c
	q.gen[key]++
	gen := q.gen[key]
	q.mu.Unlock()

	page, err := fetch(ctx, next)

	q.mu.Lock()
	current := q.gen[key]
	delete(q.inflight, key)
	q.mu.Unlock()

	if err != nil {
		c.err = err
		close(c.done)
		return chain, err
	}

	updated := &Chain[T]{
		Pages:     append(append([]Page[T]{}, chain.Pages...), *page),
		FetchedAt: chain.FetchedAt,
	}
	if current == gen {
		if setErr := q.store.Set(ctx, key, updated); setErr != nil && q.logger != nil {
			q.logger.Warn("failed to store page chain", "key", key, "error", setErr)
		}
	}
	c.val = updated
	close(c.done)
	return updated, nil
}

// Invalidate removes the chain for key and discards any in-flight result
// for it.
func (q *InfiniteQuery[T]) Invalidate(ctx context.Context, key string) {
	q.mu.Lock()
	q.gen[key]++
	q.mu.Unlock()
	_ = q.store.Delete(ctx, key)
}

// loadFirst runs a deduplicated first-page fetch and stores the resulting
// single-page chain.
func (q *InfiniteQuery[T]) loadFirst(ctx context.Context, key string, fetch PageFetchFunc[T]) (*Chain[T], error) {
	c, gen, started := q.join(key)
	if started {
		q.runFirst(ctx, key, c, gen, fetch)
		return c.val, c.err
	}

	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *InfiniteQuery[T]) join(key string) (c *call[Chain[T]], gen uint64, started bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if c, ok := q.inflight[key]; ok {
		return c, 0, false
	}

	c = &call[Chain[T]]{done: make(chan struct{})}
	q.inflight[key] = c
	q.gen[key]++
	return c, q.gen[key], true
}

func (q *InfiniteQuery[T]) runFirst(ctx context.Context, key string, c *call[Chain[T]], gen uint64, fetch PageFetchFunc[T]) {
	page, err := fetch(ctx, 1)

	q.mu.Lock()
	current := q.gen[key]
	delete(q.inflight, key)
	q.mu.Unlock()

	if err != nil {
		c.err = err
		close(c.done)
		return
	}

	chain := &Chain[T]{Pages: []Page[T]{*page}, FetchedAt: time.Now()}
	if current == gen {
		if setErr := q.store.Set(ctx, key, chain); setErr != nil && q.logger != nil {
			q.logger.Warn("failed to store page chain", "key", key, "error", setErr)
		}
	}
	c.val = chain
	close(c.done)
}

func (q *InfiniteQuery[T]) refreshAsync(key string, fetch PageFetchFunc[T]) {
	c, gen, started := q.join(key)
	if !started {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		q.runFirst(ctx, key, c, gen, fetch)
		if c.err != nil && q.logger != nil {
			q.logger.Warn("background revalidation failed", "key", key, "error", c.err)
		}
	}()
}

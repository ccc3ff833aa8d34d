package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type payload struct {
	Name string `json:"name"`
}

func newTestQuery(t *testing.T, fresh time.Duration) (*Query[payload], *MemoryCache) {
	t.Helper()
	backend := NewSimpleMemoryCache(time.Hour)
	t.Cleanup(func() { _ = backend.Close() })
	return NewQuery[payload](backend, fresh, nil), backend
}

func TestQuery_FetchOnMiss(t *testing.T) {
	q, _ := newTestQuery(t, time.Minute)
	ctx := context.Background()

	var calls atomic.Int32
	fetch := func(ctx context.Context) (*payload, error) {
		calls.Add(1)
		return &payload{Name: "first"}, nil
	}

	got, err := q.Get(ctx, "ar:thing", fetch)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "first" {
		t.Errorf("expected first, got %s", got.Name)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 fetch, got %d", calls.Load())
	}

	// Fresh entry: no second fetch.
	if _, err := q.Get(ctx, "ar:thing", fetch); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected cached result, got %d fetches", calls.Load())
	}
}

func TestQuery_FetchError(t *testing.T) {
	q, _ := newTestQuery(t, time.Minute)
	ctx := context.Background()

	wantErr := errors.New("upstream down")
	_, err := q.Get(ctx, "ar:thing", func(ctx context.Context) (*payload, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	// A failed fetch must not poison the cache.
	got, err := q.Get(ctx, "ar:thing", func(ctx context.Context) (*payload, error) {
		return &payload{Name: "recovered"}, nil
	})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "recovered" {
		t.Errorf("expected recovered, got %s", got.Name)
	}
}

func TestQuery_DeduplicatesConcurrentFetches(t *testing.T) {
	q, _ := newTestQuery(t, time.Minute)
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (*payload, error) {
		calls.Add(1)
		<-release
		return &payload{Name: "shared"}, nil
	}

	const n = 20
	var wg sync.WaitGroup
	results := make([]*payload, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = q.Get(ctx, "ar:programs:all:1", fetch)
		}(i)
	}

	// Let every goroutine reach the query before releasing the fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected exactly 1 fetch for %d concurrent callers, got %d", n, calls.Load())
	}
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d got error: %v", i, errs[i])
		}
		if results[i] == nil || results[i].Name != "shared" {
			t.Errorf("caller %d got %+v", i, results[i])
		}
	}
}

func TestQuery_StaleWhileRevalidate(t *testing.T) {
	q, _ := newTestQuery(t, 10*time.Millisecond)
	ctx := context.Background()

	if _, err := q.Get(ctx, "ar:thing", func(ctx context.Context) (*payload, error) {
		return &payload{Name: "stale"}, nil
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	refetched := make(chan struct{})
	got, err := q.Get(ctx, "ar:thing", func(ctx context.Context) (*payload, error) {
		defer close(refetched)
		return &payload{Name: "fresh"}, nil
	})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	// The stale value is served immediately.
	if got.Name != "stale" {
		t.Errorf("expected stale value to be served, got %s", got.Name)
	}

	select {
	case <-refetched:
	case <-time.After(time.Second):
		t.Fatal("background revalidation never ran")
	}

	// The revalidated value shows up on subsequent reads.
	deadline := time.Now().Add(time.Second)
	for {
		got, err = q.Get(ctx, "ar:thing", func(ctx context.Context) (*payload, error) {
			return &payload{Name: "fresh"}, nil
		})
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Name == "fresh" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("revalidated value never appeared, still %s", got.Name)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestQuery_InvalidateDiscardsInFlightResult(t *testing.T) {
	q, _ := newTestQuery(t, time.Minute)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = q.Get(ctx, "ar:thing", func(ctx context.Context) (*payload, error) {
			close(started)
			<-release
			return &payload{Name: "outdated"}, nil
		})
	}()

	<-started
	// Invalidation while the fetch is in flight makes its result obsolete.
	q.Invalidate(ctx, "ar:thing")
	close(release)
	<-done

	var calls atomic.Int32
	got, err := q.Get(ctx, "ar:thing", func(ctx context.Context) (*payload, error) {
		calls.Add(1)
		return &payload{Name: "current"}, nil
	})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Error("expected the obsolete result to be discarded and a refetch to run")
	}
	if got.Name != "current" {
		t.Errorf("expected current, got %s", got.Name)
	}
}

func TestQuery_LocaleDistinctEntries(t *testing.T) {
	q, _ := newTestQuery(t, time.Minute)
	ctx := context.Background()

	fetchFor := func(name string) FetchFunc[payload] {
		return func(ctx context.Context) (*payload, error) {
			return &payload{Name: name}, nil
		}
	}

	arKey := NewContext("ar").Key("programs", "all", "1")
	enKey := NewContext("en").Key("programs", "all", "1")

	ar, err := q.Get(ctx, arKey, fetchFor("arabic"))
	if err != nil {
		t.Fatalf("Get ar failed: %v", err)
	}
	en, err := q.Get(ctx, enKey, fetchFor("english"))
	if err != nil {
		t.Fatalf("Get en failed: %v", err)
	}
	if ar.Name != "arabic" || en.Name != "english" {
		t.Errorf("locales shared an entry: ar=%s en=%s", ar.Name, en.Name)
	}
}

func TestQuery_ContextCancelledWhileWaiting(t *testing.T) {
	q, _ := newTestQuery(t, time.Minute)

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	go func() {
		_, _ = q.Get(context.Background(), "ar:thing", func(ctx context.Context) (*payload, error) {
			close(started)
			<-release
			return &payload{Name: "late"}, nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.Get(ctx, "ar:thing", func(ctx context.Context) (*payload, error) {
		return &payload{Name: "unused"}, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

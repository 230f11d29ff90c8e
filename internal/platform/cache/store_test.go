package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "scores", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "scores:1", []string{"league:1"}, loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "scores" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_InvalidateDropsTaggedEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	store.Set(ctx, "scores:1", 10, "league:1", "season:47")
	store.Set(ctx, "scores:2", 20, "league:2", "season:47")
	store.Set(ctx, "scores:3", 30, "league:3", "season:48")

	if removed := store.Invalidate(ctx, "league:1"); removed != 1 {
		t.Fatalf("unexpected removed count for league tag: %d", removed)
	}
	if _, ok := store.Get(ctx, "scores:1"); ok {
		t.Fatalf("expected league 1 scores to be invalidated")
	}

	if removed := store.Invalidate(ctx, "season:47"); removed != 1 {
		t.Fatalf("unexpected removed count for season tag: %d", removed)
	}
	if _, ok := store.Get(ctx, "scores:2"); ok {
		t.Fatalf("expected league 2 scores to be invalidated by season tag")
	}
	if got, ok := store.Get(ctx, "scores:3"); !ok || got != 30 {
		t.Fatalf("expected other season to survive, got=%v ok=%v", got, ok)
	}
	if got := store.Len(); got != 1 {
		t.Fatalf("unexpected entry count: %d", got)
	}
}

func TestStore_InvalidateDuringLoadSkipsStaleValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			store.Invalidate(ctx, "league:1")
			return "stale", nil
		}
		return "fresh", nil
	}

	got, err := store.GetOrLoad(ctx, "scores:1", []string{"league:1"}, loader)
	if err != nil || got != "stale" {
		t.Fatalf("unexpected first load: got=%v err=%v", got, err)
	}
	if _, ok := store.Get(ctx, "scores:1"); ok {
		t.Fatalf("value loaded across an invalidation must not be cached")
	}

	got, err = store.GetOrLoad(ctx, "scores:1", []string{"league:1"}, loader)
	if err != nil || got != "fresh" {
		t.Fatalf("unexpected second load: got=%v err=%v", got, err)
	}
	if _, ok := store.Get(ctx, "scores:1"); !ok {
		t.Fatalf("expected fresh value to be cached")
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(time.Minute)
	store.now = func() time.Time { return now }

	store.Set(ctx, "k", "v", "t")
	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("expected expired entry")
	}
	if removed := store.Invalidate(ctx, "t"); removed != 0 {
		t.Fatalf("expired entry should have left its tag, removed=%d", removed)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	loadErr := errors.New("db down")
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return nil, loadErr
	}

	for i := 0; i < 2; i++ {
		if _, err := store.GetOrLoad(context.Background(), "k", nil, loader); !errors.Is(err, loadErr) {
			t.Fatalf("expected load error, got %v", err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")

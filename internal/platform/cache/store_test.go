package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoadDeduplicatesConcurrentMisses(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := store.GetOrLoad(context.Background(), "board:league-1", func(context.Context) (any, error) {
				calls.Add(1)
				<-release
				return 42, nil
			})
			if err != nil || value.(int) != 42 {
				t.Errorf("unexpected load result: %v %v", value, err)
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected one load, got %d", calls.Load())
	}
}

func TestStore_ExpiryAndPrefixDelete(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Second)
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	store.Set(ctx, "board:league-1:season", 1)
	store.Set(ctx, "board:league-2:season", 2)

	store.DeletePrefix(ctx, "board:league-1:")
	if _, ok := store.Get(ctx, "board:league-1:season"); ok {
		t.Fatalf("expected prefix delete to evict league-1")
	}
	if _, ok := store.Get(ctx, "board:league-2:season"); !ok {
		t.Fatalf("expected league-2 entry to survive")
	}

	now = now.Add(2 * time.Second)
	if _, ok := store.Get(ctx, "board:league-2:season"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestStore_LoaderErrorIsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	boom := errors.New("boom")
	if _, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	value, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) { return "ok", nil })
	if err != nil || value != "ok" {
		t.Fatalf("expected reload after error, got %v %v", value, err)
	}
}

func TestStore_StatsTrackHitsMissesAndEvictions(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Second)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	if _, ok := store.Get(ctx, "board:office-cup:season"); ok {
		t.Fatalf("expected miss on empty store")
	}
	store.Set(ctx, "board:office-cup:season", 1)
	store.Set(ctx, "board:office-cup:round:r1", 2)
	store.Set(ctx, "board:weekend-five:season", 3)
	if _, ok := store.Get(ctx, "board:office-cup:season"); !ok {
		t.Fatalf("expected hit")
	}

	if removed := store.DeletePrefix(ctx, "board:office-cup:"); removed != 2 {
		t.Fatalf("expected two keys removed, got %d", removed)
	}

	now = now.Add(2 * time.Second)
	if removed := store.Purge(); removed != 1 {
		t.Fatalf("expected one expired key purged, got %d", removed)
	}

	got := store.Stats()
	want := Stats{Hits: 1, Misses: 1, Evictions: 3, Entries: 0}
	if got != want {
		t.Fatalf("stats=%+v want=%+v", got, want)
	}
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	store.Set(ctx, "rules:office-cup", "x")
	now = now.Add(24 * time.Hour)
	if _, ok := store.Get(ctx, "rules:office-cup"); !ok {
		t.Fatalf("expected entry without ttl to survive")
	}
	if removed := store.Purge(); removed != 0 {
		t.Fatalf("expected purge to be a no-op, got %d", removed)
	}
}

func TestStore_NilStoreBypassesCache(t *testing.T) {
	t.Parallel()

	var store *Store
	calls := 0
	for i := 0; i < 2; i++ {
		value, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) {
			calls++
			return calls, nil
		})
		if err != nil || value.(int) != i+1 {
			t.Fatalf("unexpected load result: %v %v", value, err)
		}
	}
	if _, err := store.GetOrLoad(context.Background(), "k", nil); err == nil {
		t.Fatalf("expected error for nil loader")
	}
	if store.Stats() != (Stats{}) {
		t.Fatalf("expected zero stats for nil store")
	}
}

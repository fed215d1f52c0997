package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/singleflight"
)

var errNilLoader = errors.New("cache: loader is required")

type item struct {
	value   any
	expires time.Time // zero means no expiry
}

func (it item) live(now time.Time) bool {
	return it.expires.IsZero() || now.Before(it.expires)
}

// Stats is a point-in-time view of store activity.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Loads     uint64
	LoadFails uint64
	Evictions uint64
	Entries   int
}

// Store is an in-process read-through cache for league-scoped reads.
// Concurrent misses on one key collapse into a single loader call, and a
// failed load is never stored.
type Store struct {
	mu    sync.RWMutex
	items map[string]item
	ttl   time.Duration
	group singleflight.Group
	now   func() time.Time

	hits, misses, loads, loadFails, evictions atomic.Uint64
}

// NewStore returns a store whose entries live for ttl. A ttl <= 0 keeps
// entries until they are invalidated.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		items: make(map[string]item),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if s == nil || key == "" {
		return nil, false
	}

	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if ok && it.live(s.now()) {
		s.hits.Add(1)
		return it.value, true
	}
	s.misses.Add(1)
	if ok {
		s.mu.Lock()
		// Another writer may have refreshed the key in between.
		if cur, still := s.items[key]; still && !cur.live(s.now()) {
			delete(s.items, key)
			s.evictions.Add(1)
		}
		s.mu.Unlock()
	}
	return nil, false
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if s == nil || key == "" {
		return
	}
	it := item{value: value}
	if s.ttl > 0 {
		it.expires = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
}

// DeletePrefix drops every key under prefix and reports how many went.
func (s *Store) DeletePrefix(_ context.Context, prefix string) int {
	if s == nil || prefix == "" {
		return 0
	}

	removed := 0
	s.mu.Lock()
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
			removed++
		}
	}
	s.mu.Unlock()
	s.evictions.Add(uint64(removed))
	return removed
}

// Purge removes expired entries. Reads already skip them; this only bounds
// memory for keys that are never read again.
func (s *Store) Purge() int {
	if s == nil || s.ttl <= 0 {
		return 0
	}

	now := s.now()
	removed := 0
	s.mu.Lock()
	for key, it := range s.items {
		if !it.live(now) {
			delete(s.items, key)
			removed++
		}
	}
	s.mu.Unlock()
	s.evictions.Add(uint64(removed))
	return removed
}

// GetOrLoad returns the cached value for key or calls loader once across all
// concurrent callers. A nil store or empty key bypasses caching.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, errNilLoader
	}
	if s == nil || key == "" {
		return loader(ctx)
	}
	if v, ok := s.Get(ctx, key); ok {
		return v, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		s.mu.RLock()
		it, ok := s.items[key]
		s.mu.RUnlock()
		if ok && it.live(s.now()) {
			return it.value, nil
		}

		s.loads.Add(1)
		loaded, err := loader(ctx)
		if err != nil {
			s.loadFails.Add(1)
			return nil, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	return v, err
}

func (s *Store) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	s.mu.RLock()
	n := len(s.items)
	s.mu.RUnlock()
	return Stats{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Loads:     s.loads.Load(),
		LoadFails: s.loadFails.Load(),
		Evictions: s.evictions.Load(),
		Entries:   n,
	}
}

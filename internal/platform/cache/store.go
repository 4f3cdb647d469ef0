package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/speedrun-browser/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
	seq       uint64
}

func (e entry) live(now time.Time) bool {
	return e.expiresAt.IsZero() || now.Before(e.expiresAt)
}

// Store is an in-process TTL cache. Concurrent loads of one key share a
// single loader call. A zero ttl keeps entries until they are evicted.
type Store struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	seq        uint64
	now        func() time.Time
	flight     resilience.SingleFlight[any]

	hits, misses, evictions atomic.Int64
}

type Option func(*Store)

// WithMaxEntries bounds the store. When full, expired entries are dropped
// first and then the oldest insert.
func WithMaxEntries(n int) Option {
	return func(s *Store) { s.maxEntries = max(n, 0) }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Stats is a point-in-time view of store usage.
type Stats struct {
	Entries   int
	Hits      int64
	Misses    int64
	Evictions int64
}

func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.Lock()
	e, ok := s.entries[key]
	if ok && !e.live(s.now()) {
		delete(s.entries, key)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		s.misses.Add(1)
		return nil, false
	}
	s.hits.Add(1)
	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if _, exists := s.entries[key]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.makeRoomLocked(now)
	}

	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = now.Add(s.ttl)
	}
	s.seq++
	s.entries[key] = entry{value: value, expiresAt: expiresAt, seq: s.seq}
}

func (s *Store) makeRoomLocked(now time.Time) {
	for key, e := range s.entries {
		if !e.live(now) {
			delete(s.entries, key)
		}
	}
	for len(s.entries) >= s.maxEntries {
		var oldestKey string
		var oldestSeq uint64
		for key, e := range s.entries {
			if oldestKey == "" || e.seq < oldestSeq {
				oldestKey, oldestSeq = key, e.seq
			}
		}
		delete(s.entries, oldestKey)
		s.evictions.Add(1)
	}
}

// GetOrLoad returns the cached value for key or stores what loader returns.
// Loader errors are not cached. An empty key bypasses the cache.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, errors.New("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	return s.flight.Do(ctx, key, func(ctx context.Context) (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
}

func (s *Store) Stats() Stats {
	now := s.now()
	s.mu.Lock()
	live := 0
	for _, e := range s.entries {
		if e.live(now) {
			live++
		}
	}
	s.mu.Unlock()

	return Stats{
		Entries:   live,
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Evictions: s.evictions.Load(),
	}
}

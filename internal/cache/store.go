package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	data      any
	expiresAt time.Time
}

// Stats tracks store effectiveness.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// Store is a keyed TTL cache. Expired entries are dropped lazily on Get and
// swept by a background loop every cleanup interval.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	stats   Stats
}

const cleanupEvery = 5 * time.Minute

// NewStore creates a Store with the given default TTL and starts its sweep
// loop, which runs until ctx is cancelled.
func NewStore(ctx context.Context, ttl time.Duration) *Store {
	s := &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
	go s.sweepLoop(ctx)
	return s
}

// Get returns the value for key if present and unexpired.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		s.count(func(st *Stats) { st.Misses++ })
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		s.count(func(st *Stats) { st.Misses++; st.Evictions++ })
		return nil, false
	}
	s.count(func(st *Stats) { st.Hits++ })
	return e.data, true
}

// Set stores value under key with the default TTL.
func (s *Store) Set(key string, value any) {
	s.SetWithTTL(key, value, s.ttl)
}

// SetWithTTL stores value under key with a custom TTL.
func (s *Store) SetWithTTL(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	s.entries[key] = entry{data: value, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
}

// Delete removes key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// GetStats returns a copy of the store statistics.
func (s *Store) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Store) count(f func(*Stats)) {
	s.mu.Lock()
	f(&s.stats)
	s.mu.Unlock()
}

func (s *Store) sweepLoop(ctx context.Context) {
	t := time.NewTicker(cleanupEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep()
		}
	}
}

func (s *Store) sweep() {
	now := time.Now()
	s.mu.Lock()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
			s.stats.Evictions++
		}
	}
	s.mu.Unlock()
}

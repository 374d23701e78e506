// Package cache provides in-process TTL memoization for outbound API calls.
package cache

import (
	"context"
	"sync"
	"time"
)

// FetchFunc produces a fresh value for a Slot.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Slot is a single-value cache-or-fetch memo. On Get, a value younger than
// the TTL is returned as-is; otherwise fetch runs and its result replaces the
// slot. The mutex is held across the fetch, so concurrent readers of an
// expired slot trigger exactly one upstream call.
//
// If the fetch fails and a previous value exists, the stale value is served
// instead of the error.
type Slot[T any] struct {
	ttl     time.Duration
	observe func(outcome string)

	mu        sync.Mutex
	value     T
	fetchedAt time.Time
	hits      int64
	misses    int64
}

// SlotOption configures a Slot.
type SlotOption[T any] func(*Slot[T])

// WithObserver registers a callback invoked once per Get with the lookup
// outcome: "hit", "miss", or "stale".
func WithObserver[T any](fn func(outcome string)) SlotOption[T] {
	return func(s *Slot[T]) {
		s.observe = fn
	}
}

// NewSlot creates a Slot with the given TTL.
func NewSlot[T any](ttl time.Duration, opts ...SlotOption[T]) *Slot[T] {
	s := &Slot[T]{ttl: ttl, observe: func(string) {}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached value or fetches a fresh one.
func (s *Slot[T]) Get(ctx context.Context, fetch FetchFunc[T]) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < s.ttl {
		s.hits++
		s.observe("hit")
		return s.value, nil
	}

	s.misses++
	fresh, err := fetch(ctx)
	if err != nil {
		if !s.fetchedAt.IsZero() {
			// Serve stale on upstream failure.
			s.observe("stale")
			return s.value, nil
		}
		s.observe("miss")
		var zero T
		return zero, err
	}
	s.observe("miss")

	s.value = fresh
	s.fetchedAt = time.Now()
	return fresh, nil
}

// Invalidate clears the slot so the next Get fetches fresh.
func (s *Slot[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.value = zero
	s.fetchedAt = time.Time{}
}

// Counters returns hit and miss counts since creation.
func (s *Slot[T]) Counters() (hits, misses int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits, s.misses
}

// Package cache provides the process-wide result cache shared by list and
// point reads. Entries are addressed by structural (domain, entity, suffix)
// keys, concurrent loads for the same key are collapsed into one, and a
// successful mutation invalidates every entry under its (domain, entity)
// prefix so the next read refetches from the source of truth.
//
// The store is in-memory and best effort: it is never persisted, and a miss
// always falls through to the underlying read.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key addresses one cached result. Suffix is the canonical list-query
// serialization or a record id; equality is structural.
type Key struct {
	Domain string
	Entity string
	Suffix string
}

func (k Key) String() string {
	return k.Domain + "/" + k.Entity + "/" + k.Suffix
}

func (k Key) prefix() string {
	return k.Domain + "/" + k.Entity
}

type entry struct {
	value    any
	storedAt time.Time
}

// Store is the cache. Construct one per process with New and inject it into
// the services that need it.
type Store struct {
	mu      sync.RWMutex
	entries map[Key]entry
	gens    map[string]uint64
	group   singleflight.Group
	ttl     time.Duration
}

// New constructs a Store. A ttl of zero disables staleness expiry, leaving
// invalidation as the only way an entry is discarded.
func New(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[Key]entry),
		gens:    make(map[string]uint64),
		ttl:     ttl,
	}
}

// GetOrLoad returns the cached value for key, or runs loader to produce it.
// Concurrent callers with the same key within the same invalidation
// generation share a single loader execution. Loader errors are returned to
// every waiter and nothing is stored.
func (s *Store) GetOrLoad(ctx context.Context, key Key, loader func(context.Context) (any, error)) (any, error) {
	s.mu.RLock()
	gen := s.gens[key.prefix()]
	if e, ok := s.entries[key]; ok && s.fresh(e) {
		s.mu.RUnlock()
		return e.value, nil
	}
	s.mu.RUnlock()

	// The generation is part of the flight key: a read issued after an
	// invalidation never joins a flight started before it.
	flightKey := key.String() + "#" + strconv.FormatUint(gen, 10)
	v, err, _ := s.group.Do(flightKey, func() (any, error) {
		s.mu.RLock()
		if e, ok := s.entries[key]; ok && s.fresh(e) {
			s.mu.RUnlock()
			return e.value, nil
		}
		s.mu.RUnlock()

		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.gens[key.prefix()] == gen {
			s.entries[key] = entry{value: value, storedAt: time.Now()}
		}
		s.mu.Unlock()
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Invalidate drops every entry whose (domain, entity) prefix matches and
// bumps the generation so in-flight loads for that prefix cannot reinsert
// stale values. Calling it twice is equivalent to calling it once.
func (s *Store) Invalidate(domain, entity string) {
	prefix := domain + "/" + entity
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[prefix]++
	for k := range s.entries {
		if k.prefix() == prefix {
			delete(s.entries, k)
		}
	}
}

// Len reports the number of live entries. Used by tests and metrics.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) fresh(e entry) bool {
	if s.ttl <= 0 {
		return true
	}
	return time.Since(e.storedAt) < s.ttl
}

// GetOrLoad is the typed wrapper services use: it preserves the concrete
// result type across the store's any-valued entries.
func GetOrLoad[T any](ctx context.Context, s *Store, key Key, loader func(context.Context) (T, error)) (T, error) {
	v, err := s.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
	tags      []string
}

// Store is an in-process TTL cache whose entries can be grouped under tags.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	byTag   map[string]map[string]struct{}

	// generation is bumped on every invalidation so an in-flight load that
	// started before it does not store a stale value.
	generation map[string]uint64
	ttl        time.Duration
	flight     singleflight.Group
	now        func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries:    make(map[string]entry),
		byTag:      make(map[string]map[string]struct{}),
		generation: make(map[string]uint64),
		ttl:        ttl,
		now:        time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		s.deleteLocked(key)
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores value under key and registers it with every tag.
func (s *Store) Set(_ context.Context, key string, value any, tags ...string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.setLocked(key, value, tags)
	s.mu.Unlock()
}

func (s *Store) setLocked(key string, value any, tags []string) {
	s.deleteLocked(key)

	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}
	s.entries[key] = entry{
		value:     value,
		expiresAt: expiresAt,
		tags:      tags,
	}
	for _, tag := range tags {
		keys, ok := s.byTag[tag]
		if !ok {
			keys = make(map[string]struct{})
			s.byTag[tag] = keys
		}
		keys[key] = struct{}{}
	}
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.deleteLocked(key)
	s.mu.Unlock()
}

func (s *Store) deleteLocked(key string) {
	e, ok := s.entries[key]
	if !ok {
		return
	}
	delete(s.entries, key)
	for _, tag := range e.tags {
		if keys, ok := s.byTag[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(s.byTag, tag)
			}
		}
	}
}

// Invalidate drops every entry tagged with tag and returns how many went.
func (s *Store) Invalidate(_ context.Context, tag string) int {
	if tag == "" {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation[tag]++
	keys := s.byTag[tag]
	removed := len(keys)
	for key := range keys {
		s.deleteLocked(key)
	}
	delete(s.byTag, tag)
	return removed
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			s.deleteLocked(key)
		}
	}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value or runs loader once for all concurrent
// callers of the same key. The loaded value is stored under tags unless one of
// them was invalidated while loading.
func (s *Store) GetOrLoad(ctx context.Context, key string, tags []string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		started := s.generations(tags)
		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}

		s.mu.Lock()
		if s.unchangedLocked(tags, started) {
			s.setLocked(key, loaded, tags)
		}
		s.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (s *Store) generations(tags []string) []uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]uint64, len(tags))
	for i, tag := range tags {
		out[i] = s.generation[tag]
	}
	return out
}

func (s *Store) unchangedLocked(tags []string, started []uint64) bool {
	for i, tag := range tags {
		if s.generation[tag] != started[i] {
			return false
		}
	}
	return true
}

// Len returns the number of live and expired entries still held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

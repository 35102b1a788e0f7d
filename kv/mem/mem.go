// Package mem is the default, in-memory kv.Store implementation: a
// map guarded by a mutex, with lazy TTL expiry checked on read. It backs
// every test in this module and is the fallback production backend when
// no redis address is configured.
package mem

import (
	"context"
	"sync"
	"time"

	"github.com/wayfind/metasearch-core/kv"
)

type entry struct {
	value   []byte
	expires time.Time
	hasTTL  bool
}

type Store struct {
	mu     sync.Mutex
	values map[string]entry
	lists  map[string][]string
}

func New() *Store {
	return &Store{
		values: make(map[string]entry),
		lists:  make(map[string][]string),
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.values[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	if e.hasTTL && time.Now().After(e.expires) {
		delete(s.values, key)
		return nil, kv.ErrNotFound
	}
	return e.value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.hasTTL = true
		e.expires = time.Now().Add(ttl)
	}
	s.values[key] = e
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *Store) ListAppend(ctx context.Context, key string, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[key] = append(s.lists[key], member)
	return nil
}

func (s *Store) ListRemove(ctx context.Context, key string, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.lists[key]
	for i, m := range list {
		if m == member {
			s.lists[key] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) ListRange(ctx context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.lists[key]))
	copy(out, s.lists[key])
	return out, nil
}

// Package memory is an in-process store.KV for tests and ephemeral runs.
package memory

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/startpage/internal/store"
)

// Store keeps values in a map guarded by a RWMutex.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ store.KV = (*Store)(nil)

func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

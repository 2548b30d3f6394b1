package memory

import (
	"context"
	"sync"

	"github.com/mcoot/pointsync/internal/kv"
)

// Store is an in-memory implementation of the key-value store.
// Used in tests and as a non-durable fallback; writes can be made to fail
// on demand to exercise rollback paths.
type Store struct {
	mu      sync.RWMutex
	data    map[string]string
	failErr error
}

// New creates a new in-memory store
func New() *Store {
	return &Store{
		data: make(map[string]string),
	}
}

// Ensure Store implements the interface
var _ kv.Store = (*Store)(nil)

// FailWrites makes subsequent Set and Delete calls return err.
// Pass nil to restore normal behavior.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return "", kv.ErrKeyNotFound
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.data[key] = value
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	delete(s.data, key)
	return nil
}

func (s *Store) Close() error {
	return nil
}

// Package inmemory provides a KeyValueStore kept in process memory.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	portsrepo "github.com/SscSPs/dailybalance/internal/core/ports/repositories"
)

// Store is an in-memory implementation of KeyValueStore.
// It is safe for concurrent use.
// Data is lost on service restart - for persistence, use the postgres or aztables backend.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ portsrepo.KeyValueStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		values: make(map[string][]byte),
	}
}

// Get implements the KeyValueReader interface.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	// Return a copy to avoid external modifications
	return append([]byte(nil), v...), true, nil
}

// ListKeys implements the KeyValueReader interface. Keys are returned sorted.
func (s *Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Put implements the KeyValueWriter interface.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements the KeyValueWriter interface. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

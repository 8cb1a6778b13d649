// Package memory provides an in-process DocumentStore used by tests and by
// the "memory" storage driver.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/aliskhannn/quranlingo-bot/internal/repository"
)

// Store keeps documents in a map guarded by a mutex.
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{docs: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.docs[key]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}
	return slices.Clone(data), nil
}

func (s *Store) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = slices.Clone(data)
	return nil
}

// Keys returns the keys starting with prefix in lexical order.
func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

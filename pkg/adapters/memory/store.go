// Package memory provides in-memory adapters, useful for tests and the
// local chat REPL.
package memory

import (
	"context"
	"sync"

	"github.com/mintaka-labs/pennywise/pkg/domain"
)

// Store implements ports.ContextStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Context
	mu   sync.RWMutex
}

// NewStore creates a new in-memory context store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Context),
	}
}

// Save persists the context in memory. The context is cloned so the
// caller cannot mutate stored state by pointer.
func (s *Store) Save(ctx context.Context, userID string, convo *domain.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = convo.Clone()
	return nil
}

// Load retrieves a copy of the context from memory.
func (s *Store) Load(ctx context.Context, userID string) (*domain.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	convo, ok := s.data[userID]
	if !ok {
		return nil, domain.ErrContextNotFound
	}
	return convo.Clone(), nil
}

// Delete removes the context.
func (s *Store) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
	return nil
}

// List returns the user IDs with a stored context.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

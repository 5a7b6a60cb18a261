package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/enigma/pkg/domain"
)

// Store implements ports.KeySheetStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.KeySheet
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.KeySheet),
	}
}

// Save persists a copy of the key sheet.
func (s *Store) Save(ctx context.Context, sheet *domain.KeySheet) error {
	copied := sheet.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sheet.Name] = copied
	return nil
}

// Load retrieves a copy of the key sheet so callers can't mutate the store through it.
func (s *Store) Load(ctx context.Context, name string) (*domain.KeySheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sheet, ok := s.data[name]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sheet.Clone(), nil
}

// Delete removes the key sheet.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored names in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

package history

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used in tests and single-process runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]Turn
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]Turn)}
}

// Load returns a copy of the identity's turns, empty if unknown.
func (s *MemoryStore) Load(ctx context.Context, identity string) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.records[identity]
	turns := make([]Turn, len(stored))
	copy(turns, stored)
	return turns, nil
}

// Save overwrites the identity's record with the full sequence.
func (s *MemoryStore) Save(ctx context.Context, identity string, turns []Turn) error {
	copied := make([]Turn, len(turns))
	copy(copied, turns)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[identity] = copied
	return nil
}

var _ Store = (*MemoryStore)(nil)

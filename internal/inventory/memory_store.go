package inventory

import (
	"context"
	"sync"
)

// MemoryStore implements StockStore with in-memory storage. The mutex makes
// Decrement a single conditional update, not a read-then-write.
type MemoryStore struct {
	mu    sync.Mutex
	units int64
}

func NewMemoryStore(units int64) *MemoryStore {
	return &MemoryStore{units: units}
}

func (s *MemoryStore) Stock(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.units, nil
}

func (s *MemoryStore) SetStock(_ context.Context, units int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units = units
	return nil
}

func (s *MemoryStore) Decrement(_ context.Context, units int64) (int64, int64, error) {
	if units <= 0 {
		return 0, 0, ErrInvalidDecrement
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	consumed := units
	if consumed > s.units {
		consumed = s.units
	}
	s.units -= consumed
	return consumed, s.units, nil
}

package discount

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("discount code not found")

// Store looks up discount records by code. Lookup is case-sensitive as
// stored; callers uppercase before calling.
type Store interface {
	FindActiveByCode(ctx context.Context, code string) (*Record, error)
}

// MemoryStore is an in-process active-discount store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore(records ...Record) *MemoryStore {
	s := &MemoryStore{records: make(map[string]Record, len(records))}
	for _, record := range records {
		s.records[record.Code] = record
	}
	return s
}

func (s *MemoryStore) Put(record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Code] = record
}

func (s *MemoryStore) FindActiveByCode(_ context.Context, code string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[strings.TrimSpace(code)]
	if !ok || !record.Active {
		return nil, ErrNotFound
	}
	return &record, nil
}

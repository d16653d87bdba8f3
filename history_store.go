package krypt

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is a HistoryStore that keeps entries in memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries []HistoryEntry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored entries.
func (s *MemoryStore) Load(ctx context.Context) ([]HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries), nil
}

// Save replaces the stored entries with a copy of entries.
func (s *MemoryStore) Save(ctx context.Context, entries []HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = slices.Clone(entries)
	return nil
}

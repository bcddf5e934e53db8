package kvstore

import (
	"context"
	"fmt"
	"sync"
)

type memoryEntry struct {
	value    string
	revision int64
}

// MemoryStore is a process-local VersionedStore.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	value, _, err := s.GetVersioned(ctx, key)
	return value, err
}

func (s *MemoryStore) GetVersioned(ctx context.Context, key string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return "", 0, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return entry.value, entry.revision, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entries[key]
	s.entries[key] = memoryEntry{value: value, revision: entry.revision + 1}
	return nil
}

func (s *MemoryStore) CompareAndSwap(ctx context.Context, key, value string, expected int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries[key].revision != expected {
		return 0, ErrConflict
	}
	s.entries[key] = memoryEntry{value: value, revision: expected + 1}
	return expected + 1, nil
}

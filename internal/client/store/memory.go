package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory slot used in tests and by several session
// caches simulating tabs within one process.
type MemoryStore struct {
	mu    sync.Mutex
	value string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

func (s *MemoryStore) Set(ctx context.Context, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = credential
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = ""
	return nil
}

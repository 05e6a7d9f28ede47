package blobstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used by tests and dry runs
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Put overwrites the blob at container/name
func (s *MemoryStore) Put(_ context.Context, container, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[blobKey(container, name)] = stored
	return nil
}

// Get reads the blob at container/name
func (s *MemoryStore) Get(_ context.Context, container, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[blobKey(container, name)]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Health always succeeds
func (s *MemoryStore) Health(_ context.Context) error { return nil }

// Close is a no-op
func (s *MemoryStore) Close() {}

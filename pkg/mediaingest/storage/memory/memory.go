package memory

import (
	"context"
	"sync"

	"github.com/tendant/simple-ingest/pkg/mediaingest"
)

// Store is an in-memory implementation of the mediaingest.ObjectStore
// interface, used by tests and the dev server.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory object store
func New() *Store {
	return &Store{
		objects: make(map[string][]byte),
	}
}

// Put stores data under objectKey
func (s *Store) Put(ctx context.Context, objectKey string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey] = data
}

// Exists reports whether an object is stored under objectKey
func (s *Store) Exists(objectKey string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.objects[objectKey]
	return exists
}

// Delete removes the object stored under objectKey
func (s *Store) Delete(ctx context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.objects[objectKey]; !exists {
		return &mediaingest.StorageError{Key: objectKey, Op: "delete", Err: mediaingest.ErrObjectNotFound}
	}
	delete(s.objects, objectKey)
	return nil
}

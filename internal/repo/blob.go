// Package repo contains all storage access for the trip planner.
// Trips are persisted as one JSON document under a fixed key in a key-value
// blob store; each backend has its own file. No business logic lives here.
package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/trip-planner/internal/domain"
)

// BlobStore is a durable key-value store of opaque byte values.
// The trip repo depends on this interface, which lets it be tested against
// the in-memory implementation.
type BlobStore interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
}

// MemBlobStore is a BlobStore held in process memory. It backs the
// "memory" storage driver and tests.
type MemBlobStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemBlobStore returns an empty MemBlobStore.
func NewMemBlobStore() *MemBlobStore {
	return &MemBlobStore{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (m *MemBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, fmt.Errorf("repo.MemBlobStore.Get: %w", domain.ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of value under key.
func (m *MemBlobStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

package storage

import (
	"sync"

	"github.com/example/reviewbox/pkg/models"
)

// Memory is an in-process backend for tests and ephemeral use
type Memory struct {
	mu    sync.Mutex
	store models.Store
}

// NewMemory creates an empty in-memory backend
func NewMemory() *Memory {
	return &Memory{store: models.Store{}}
}

// Load returns a copy of the held store
func (m *Memory) Load() (models.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Clone(), nil
}

// Save replaces the held store with a copy of the given one
func (m *Memory) Save(store models.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = store.Clone()
	return nil
}

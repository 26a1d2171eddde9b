package session

import (
	"context"
	"sync"
)

// MemoryStorage is the in-process Storage used by tests and by the
// throwaway "memory" backend.
type MemoryStorage struct {
	mu sync.Mutex
	id string
}

func NewMemoryStorage() *MemoryStorage { return &MemoryStorage{} }

func (m *MemoryStorage) Load(ctx context.Context) (string, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, nil
}

func (m *MemoryStorage) Save(ctx context.Context, id string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = id
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = ""
	return nil
}

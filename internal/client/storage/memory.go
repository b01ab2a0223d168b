package storage

import (
	"context"
	"sync"
)

// MemoryStorage is an in-memory DurableStorage, safe for concurrent use.
// Useful for tests and ephemeral sessions.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string][]byte

	// FailWrites makes SetItem return failErr, for exercising the
	// best-effort cache-write path.
	FailWrites bool
	failErr    error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string][]byte)}
}

// FailWritesWith arranges for subsequent SetItem calls to fail with err.
func (m *MemoryStorage) FailWritesWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailWrites = true
	m.failErr = err
}

func (m *MemoryStorage) GetItem(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStorage) SetItem(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return m.failErr
	}

	v := make([]byte, len(value))
	copy(v, value)
	m.items[key] = v
	return nil
}

func (m *MemoryStorage) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

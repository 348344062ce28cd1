package storage

import (
	"context"
	"sync"
)

// memoryBackend keeps values in process memory. Nothing survives a restart.
type memoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory creates an in-process backend.
func NewMemory() Backend {
	return &memoryBackend{values: make(map[string][]byte)}
}

func (m *memoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *memoryBackend) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	m.mu.Lock()
	m.values[key] = v
	m.mu.Unlock()
	return nil
}

func (m *memoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

func (m *memoryBackend) Close() error {
	return nil
}

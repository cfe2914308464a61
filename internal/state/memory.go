package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps state in process memory.
// Used for --ephemeral runs and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	values    map[string]string
	lastWrite time.Time
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

// Get retrieves a value by key
func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

// Set adds or replaces a single value
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	m.lastWrite = time.Now()
	return nil
}

// SetMany writes all values under one lock
func (m *MemoryStore) SetMany(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range values {
		m.values[k] = v
	}
	m.lastWrite = time.Now()
	return nil
}

// Remove deletes keys
func (m *MemoryStore) Remove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.values, k)
	}
	m.lastWrite = time.Now()
	return nil
}

// Len returns the number of stored keys
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.values)
}

// LastWrite returns the time of the last mutation
func (m *MemoryStore) LastWrite() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lastWrite
}

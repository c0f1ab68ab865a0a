package memory

import (
	"fmt"
	"maps"
	"sync"
)

// InMemoryStore is a naive process-local core.KVStore. Suitable only for
// tests and demos; values do not survive the process.
//
// Concurrency: protected by RWMutex.
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewInMemoryStore creates a new in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{values: make(map[string]any)}
}

// LoadAll returns a shallow copy of every stored entry.
func (m *InMemoryStore) LoadAll() (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return maps.Clone(m.values), nil
}

// Get returns the value stored under key.
func (m *InMemoryStore) Get(key string) (any, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]

	return v, ok, nil
}

// Set stores value under key.
func (m *InMemoryStore) Set(key string, value any) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value

	return confirmation(key, value), nil
}

// Delete removes key. Deleting an absent key is not an error.
func (m *InMemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)

	return nil
}

func confirmation(key string, value any) string {
	return fmt.Sprintf("Successfully saved: %s = %v", key, value)
}

package store

import (
	"maps"
	"sync"
)

// Memory is an in-memory store. It is the default backend.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]string),
	}
}

// Get retrieves a variable by name.
func (m *Memory) Get(name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[name]
	return v, ok, nil
}

// Put stores a variable by name.
func (m *Memory) Put(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = value
	return nil
}

// Reset drops every variable.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]string)
	return nil
}

// All returns a copy of the variables.
func (m *Memory) All() (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.data), nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}

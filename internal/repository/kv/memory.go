// internal/repository/kv/memory.go
package kv

import "sync"

// MemoryKeyValue is an in-process KeyValue. Values live only as long as the process.
type MemoryKeyValue struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMemoryKeyValue returns an empty MemoryKeyValue.
func NewMemoryKeyValue() *MemoryKeyValue {
	return &MemoryKeyValue{items: make(map[string]string)}
}

// GetItem returns the value stored under key.
func (m *MemoryKeyValue) GetItem(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem stores value under key, replacing any previous value.
func (m *MemoryKeyValue) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = value
	return nil
}

var _ KeyValue = (*MemoryKeyValue)(nil)

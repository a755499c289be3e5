package storage

import (
	"context"
	"sync"
)

// MemoryTier is the session-scoped tier: records vanish when the process
// ends, the server analogue of sessionStorage.
type MemoryTier struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

func NewMemoryTier() *MemoryTier {
	return &MemoryTier{scopes: make(map[string]map[string]string)}
}

func (m *MemoryTier) Get(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records, ok := m.scopes[scope]
	if !ok {
		return "", false, nil
	}
	value, ok := records[key]
	return value, ok, nil
}

func (m *MemoryTier) Set(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, ok := m.scopes[scope]
	if !ok {
		records = make(map[string]string)
		m.scopes[scope] = records
	}
	records[key] = value
	return nil
}

func (m *MemoryTier) Delete(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if records, ok := m.scopes[scope]; ok {
		delete(records, key)
	}
	return nil
}

func (m *MemoryTier) Clear(_ context.Context, scope string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.scopes, scope)
	return nil
}

package store

import (
	"context"
	"sync"

	"revloop/internal/ledger"
)

// Memory is an in-process ledger store for tests and single-node deployments
// without a database.
type Memory struct {
	mu      sync.RWMutex
	entries []ledger.Entry
}

// NewMemory builds an empty in-memory ledger store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(ctx context.Context, entry ledger.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// List returns matching entries newest first.
func (m *Memory) List(ctx context.Context, filter Filter) ([]ledger.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.Entry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		entry := m.entries[i]
		if !filter.LoopID.IsNil() && entry.LoopID != filter.LoopID {
			continue
		}
		if len(filter.Categories) > 0 && !containsString(filter.Categories, entry.Category) {
			continue
		}
		out = append(out, entry)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

package store

import (
	"context"
	"encoding/json"
	"sync"

	"revloop/pkg/platform/sentinel"
)

// Memory is an in-process snapshot store for tests. It round-trips state
// through JSON so tests exercise the same serialization as the file store.
type Memory[T any] struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory builds an empty in-memory snapshot store.
func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{}
}

func (m *Memory[T]) Save(ctx context.Context, state *T) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *Memory[T]) Load(ctx context.Context) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, sentinel.ErrNotFound
	}
	var state T
	if err := json.Unmarshal(m.data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revloop/internal/ledger"
	"revloop/pkg/domain"
)

func seedEntries(t *testing.T, mem *Memory, loopID domain.LoopID, categories ...string) {
	t.Helper()
	for i, category := range categories {
		err := mem.Append(context.Background(), ledger.Entry{
			ID:        domain.NewLedgerEntryID(),
			LoopID:    loopID,
			Iteration: 1,
			Action:    ledger.ActionObjectionCaptured,
			Category:  category,
			Detail:    categories[i],
		})
		require.NoError(t, err)
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	mem := NewMemory()
	loopID := domain.NewLoopID()
	seedEntries(t, mem, loopID, "price_resistance", "timing_deferral", "trust_deficit")

	entries, err := mem.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "trust_deficit", entries[0].Category)
	assert.Equal(t, "price_resistance", entries[2].Category)
}

func TestListFiltersByLoop(t *testing.T) {
	mem := NewMemory()
	wanted := domain.NewLoopID()
	other := domain.NewLoopID()
	seedEntries(t, mem, wanted, "price_resistance")
	seedEntries(t, mem, other, "timing_deferral")

	entries, err := mem.List(context.Background(), Filter{LoopID: wanted})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, wanted, entries[0].LoopID)
}

func TestListFiltersByCategory(t *testing.T) {
	mem := NewMemory()
	loopID := domain.NewLoopID()
	seedEntries(t, mem, loopID, "price_resistance", "timing_deferral", "price_resistance")

	entries, err := mem.List(context.Background(), Filter{Categories: []string{"price_resistance"}})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, "price_resistance", entry.Category)
	}
}

func TestListHonorsLimit(t *testing.T) {
	mem := NewMemory()
	loopID := domain.NewLoopID()
	seedEntries(t, mem, loopID, "a", "b", "c", "d")

	entries, err := mem.List(context.Background(), Filter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Limit keeps the newest entries.
	assert.Equal(t, "d", entries[0].Category)
	assert.Equal(t, "c", entries[1].Category)
}

func TestListEmptyStore(t *testing.T) {
	entries, err := NewMemory().List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

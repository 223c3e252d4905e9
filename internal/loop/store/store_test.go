package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revloop/pkg/platform/sentinel"
)

type probe struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestSnapshot(t *testing.T) (*Snapshot[probe], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	return NewSnapshot[probe](path, slog.New(slog.DiscardHandler)), path
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	snap, _ := newTestSnapshot(t)
	ctx := context.Background()

	require.NoError(t, snap.Save(ctx, &probe{Name: "loop", Count: 3}))

	loaded, err := snap.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "loop", loaded.Name)
	assert.Equal(t, 3, loaded.Count)
}

func TestSaveOverwritesWholeSnapshot(t *testing.T) {
	snap, _ := newTestSnapshot(t)
	ctx := context.Background()

	require.NoError(t, snap.Save(ctx, &probe{Name: "first", Count: 1}))
	require.NoError(t, snap.Save(ctx, &probe{Name: "second", Count: 2}))

	loaded, err := snap.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.Name)
}

func TestLoadMissingReturnsNotFound(t *testing.T) {
	snap, _ := newTestSnapshot(t)

	_, err := snap.Load(context.Background())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	snap, path := newTestSnapshot(t)
	require.NoError(t, snap.Save(context.Background(), &probe{Name: "x"}))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadCorruptQuarantinesAndStartsFresh(t *testing.T) {
	snap, path := newTestSnapshot(t)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o644))

	_, err := snap.Load(ctx)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.ErrorIs(t, err, sentinel.ErrCorrupt, "quarantine must keep the cause inspectable")

	// Original file moved aside, bytes preserved.
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "corrupt file must be moved, not left in place")

	entries, readErr := os.ReadDir(filepath.Dir(path))
	require.NoError(t, readErr)
	quarantined := ""
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".corrupt-") {
			quarantined = entry.Name()
		}
	}
	require.NotEmpty(t, quarantined, "expected a quarantined copy")

	data, readFileErr := os.ReadFile(filepath.Join(filepath.Dir(path), quarantined))
	require.NoError(t, readFileErr)
	assert.Equal(t, "{truncated", string(data), "quarantine must preserve the bytes")

	// A fresh save works afterwards.
	require.NoError(t, snap.Save(ctx, &probe{Name: "fresh"}))
	loaded, err := snap.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh", loaded.Name)
}

func TestMemoryRoundTrip(t *testing.T) {
	mem := NewMemory[probe]()
	ctx := context.Background()

	_, err := mem.Load(ctx)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, mem.Save(ctx, &probe{Name: "m", Count: 9}))
	loaded, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, loaded.Count)
}

// Package store persists loop and scheduler state as whole-file JSON
// snapshots. Every mutation overwrites the full snapshot; there are no
// partial writes. Loop state and scheduler state live in separate files so
// the scheduler can resume independently after a restart.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"revloop/pkg/platform/sentinel"
)

// Snapshot persists a single state object to one file. Save writes a temp
// file and renames it into place so readers never observe a partial write.
type Snapshot[T any] struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	clock  func() time.Time
}

// NewSnapshot builds a snapshot store at path. Parent directories are created
// on first save.
func NewSnapshot[T any](path string, logger *slog.Logger) *Snapshot[T] {
	return &Snapshot[T]{path: path, logger: logger, clock: time.Now}
}

// Save overwrites the snapshot with the full state object.
func (s *Snapshot[T]) Save(ctx context.Context, state *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", s.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir for %s: %w", s.path, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename snapshot into place %s: %w", s.path, err)
	}
	return nil
}

// Load reads the snapshot. A missing file returns sentinel.ErrNotFound: never
// having started is a valid condition, not an error. A file that exists but
// cannot be decoded is quarantined (renamed aside with a timestamp suffix) and
// reported as ErrNotFound wrapping ErrCorrupt, so the caller starts fresh
// without losing the bytes while the cause stays inspectable.
func (s *Snapshot[T]) Load(ctx context.Context) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}

	var state T
	if err := json.Unmarshal(data, &state); err != nil {
		quarantine := fmt.Sprintf("%s.corrupt-%d", s.path, s.clock().Unix())
		if renameErr := os.Rename(s.path, quarantine); renameErr != nil {
			s.logger.Error("corrupt snapshot could not be quarantined",
				"path", s.path,
				"decode_error", err.Error(),
				"rename_error", renameErr.Error(),
			)
		} else {
			s.logger.Error("corrupt snapshot quarantined, starting fresh",
				"path", s.path,
				"quarantined_as", quarantine,
				"decode_error", err.Error(),
			)
		}
		return nil, fmt.Errorf("%w: snapshot quarantined: %w", sentinel.ErrNotFound, sentinel.ErrCorrupt)
	}
	return &state, nil
}

// Package service exposes read access to the performance ledger.
package service

import (
	"context"
	"fmt"

	"revloop/internal/ledger"
	"revloop/internal/ledger/store"
	"revloop/pkg/domain"
	dErrors "revloop/pkg/domain-errors"
)

// DefaultListLimit caps unbounded listings.
const DefaultListLimit = 100

// MaxListLimit is the hard ceiling a caller can request.
const MaxListLimit = 1000

// Service reads ledger entries. Writes go through the publisher/worker
// pipeline, never through here.
type Service struct {
	store store.Store
}

// New builds the ledger read service.
func New(s store.Store) *Service {
	return &Service{store: s}
}

// ListInput narrows a listing. Zero values mean "no constraint".
type ListInput struct {
	LoopID     string
	Categories []string
	Limit      int
}

// List returns matching entries newest first.
//
// Errors: CodeInvalidInput for a malformed loop id or negative limit.
func (s *Service) List(ctx context.Context, input ListInput) ([]ledger.Entry, error) {
	filter := store.Filter{
		Categories: input.Categories,
		Limit:      DefaultListLimit,
	}
	if input.LoopID != "" {
		loopID, err := domain.ParseLoopID(input.LoopID)
		if err != nil {
			return nil, err
		}
		filter.LoopID = loopID
	}
	if input.Limit < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "limit must not be negative")
	}
	if input.Limit > 0 {
		filter.Limit = input.Limit
		if filter.Limit > MaxListLimit {
			filter.Limit = MaxListLimit
		}
	}

	entries, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return entries, nil
}

// Package store persists performance-ledger entries. The ledger is
// append-only: no update or delete path exists.
package store

import (
	"context"

	"revloop/internal/ledger"
	"revloop/pkg/domain"
)

// Filter narrows a ledger listing. Zero values mean "no constraint".
type Filter struct {
	LoopID     domain.LoopID
	Categories []string
	Limit      int
}

// Store is the ledger persistence boundary.
type Store interface {
	Append(ctx context.Context, entry ledger.Entry) error
	List(ctx context.Context, filter Filter) ([]ledger.Entry, error)
}

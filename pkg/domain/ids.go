// Package domain holds shared value objects: typed identifiers and the small
// enums that cross feature boundaries. Construct values via the ParseX
// functions at trust boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "revloop/pkg/domain-errors"
)

// LoopID identifies one optimization loop run.
type LoopID uuid.UUID

// ObjectionID identifies a captured objection.
type ObjectionID uuid.UUID

// LedgerEntryID identifies one performance-ledger entry.
type LedgerEntryID uuid.UUID

// NewLoopID returns a random LoopID.
func NewLoopID() LoopID { return LoopID(uuid.New()) }

// NewObjectionID returns a random ObjectionID.
func NewObjectionID() ObjectionID { return ObjectionID(uuid.New()) }

// NewLedgerEntryID returns a random LedgerEntryID.
func NewLedgerEntryID() LedgerEntryID { return LedgerEntryID(uuid.New()) }

// ParseLoopID constructs a LoopID from external input.
//
// Errors: returns CodeInvalidInput when the value is not a valid UUID.
func ParseLoopID(s string) (LoopID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return LoopID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid loop id")
	}
	return LoopID(u), nil
}

// ParseObjectionID constructs an ObjectionID from external input.
//
// Errors: returns CodeInvalidInput when the value is not a valid UUID.
func ParseObjectionID(s string) (ObjectionID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ObjectionID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid objection id")
	}
	return ObjectionID(u), nil
}

func (id LoopID) String() string        { return uuid.UUID(id).String() }
func (id ObjectionID) String() string   { return uuid.UUID(id).String() }
func (id LedgerEntryID) String() string { return uuid.UUID(id).String() }

func (id LoopID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id ObjectionID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id LedgerEntryID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the ID as its canonical UUID string so JSON snapshots
// stay human-readable.
func (id LoopID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText parses the canonical UUID string form.
func (id *LoopID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = LoopID(u)
	return nil
}

func (id ObjectionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ObjectionID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = ObjectionID(u)
	return nil
}

func (id LedgerEntryID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *LedgerEntryID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = LedgerEntryID(u)
	return nil
}

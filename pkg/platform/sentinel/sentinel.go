package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity or persisted snapshot does not exist
// - ErrCorrupt: persisted snapshot exists but could not be decoded
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound = errors.New("not found")
	ErrCorrupt  = errors.New("corrupt")
)

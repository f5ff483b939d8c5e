package sentinel

import "errors"

// Sentinel errors for infrastructure facts. The store and repositories return
// these (optionally wrapped) so the facade can translate them into domain
// errors.
//
// These represent factual states about records, not validation failures:
// - ErrNotFound: entity does not exist in the store
// - ErrConflict: a uniqueness rule would be broken by the write
// - ErrInvalidState: entity in wrong state for requested transition
//
// For validation errors (bad input, missing fields), use pkg/domain-errors
// directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Caches, stores and remote clients
// return these (optionally wrapped) so services can translate them into
// domain errors or fallbacks:
//   - ErrNotFound: key does not exist or has expired
//   - ErrConflict: record with the same identity already stored
//
// Validation failures belong in pkg/domain-errors, not here.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

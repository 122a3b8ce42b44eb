package sentinel

import "errors"

// Sentinel errors for storage facts. Event, relation and outbox stores return
// these (wrapped with context) and the case service translates them into
// coded domain errors.
//
//   - ErrNotFound: case, event or row does not exist
//   - ErrConflict: a concurrent writer already advanced the case version
//   - ErrAlreadyUsed: a unique identifier (event id) was already stored
//   - ErrInvalidState: row exists but cannot serve the request
//   - ErrUnavailable: backing service temporarily unavailable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)

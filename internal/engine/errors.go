// Package engine implements the reservation core: slot allocation per
// machine class, batch cancellation, availability queries, the warning
// ledger and the referential-integrity cascade. Engine operations
// return tagged errors from the taxonomy below; mapping them to HTTP
// status codes is the handler layer's job, never the engine's.
package engine

import (
	"errors"
	"fmt"
)

// The error taxonomy shared by every engine operation. Callers match
// with errors.Is; the wrapped message carries the human detail.
var (
	// ErrUnauthenticated marks a missing or unresolved principal.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrPermissionDenied marks role, eligibility, quota or
	// warning-limit failures.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidRequest marks semantically invalid input: wrong
	// calendar date, occupied slot, inactive machine.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound marks an absent referenced entity.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks an optimistic-counter mismatch.
	ErrConflict = errors.New("conflict")
	// ErrInternal wraps storage and transaction failures.
	ErrInternal = errors.New("internal error")
)

func denied(msg string) error   { return fmt.Errorf("%w: %s", ErrPermissionDenied, msg) }
func invalid(msg string) error  { return fmt.Errorf("%w: %s", ErrInvalidRequest, msg) }
func notFound(msg string) error { return fmt.Errorf("%w: %s", ErrNotFound, msg) }
func conflict(msg string) error { return fmt.Errorf("%w: %s", ErrConflict, msg) }

// internal wraps an unexpected storage error, preserving it for logs
// while keeping the taxonomy tag matchable.
func internal(err error) error { return fmt.Errorf("%w: %v", ErrInternal, err) }

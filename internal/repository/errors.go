// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// engines and handlers to distinguish between different failure
// scenarios. For example, ErrForbidden indicates that the current user
// is not authorized to operate on a record owned by someone else, while
// ErrStaleCount signals that an optimistic counter comparison failed
// because another staff member mutated the row first.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// record they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrStaleCount is returned when a guarded counter update finds that the
// stored value no longer matches the expected one supplied by the
// client. Callers should surface this as a conflict so the client can
// reload and retry.
var ErrStaleCount = errors.New("stale counter value")

// ErrQuotaExhausted is returned when a guarded quota decrement would
// take a counter below zero. The allocation engine checks quotas before
// committing, so hitting this inside a transaction means a concurrent
// booking consumed the quota first.
var ErrQuotaExhausted = errors.New("quota exhausted")

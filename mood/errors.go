/*
errors.go - Centralized error types for the mood domain

PURPOSE:
  All domain error values in one place. Callers branch with errors.Is();
  backends wrap these with transport context.

ERROR CATEGORIES:
  1. Document errors - Missing or unreadable remote documents
  2. Gate errors - Operations attempted before identity is established
  3. Transport errors - Backend failures on load/persist

PROPAGATION POLICY:
  Controller-level failures are terminal-local: they are logged at the
  operation boundary and surfaced as typed results, never rethrown to the
  rendering layer. The calendar keeps rendering whatever is in memory.
*/
package mood

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDocumentNotFound is returned by DocumentStore.Get when no document
	// exists at the path. On load this is NOT a failure: it means fresh
	// empty state.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrNoIdentity is returned when a gated operation runs without an
	// established identity. The gate normally suppresses such calls
	// silently; the sentinel exists for callers that want to distinguish
	// "skipped" from "failed".
	ErrNoIdentity = errors.New("no identity established")

	// ErrStoreUnavailable is returned when the backing store collaborator
	// was never wired. Detected at startup, logged, never user-facing.
	ErrStoreUnavailable = errors.New("document store unavailable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// TransportError wraps a backend failure on a load or persist, keeping the
// operation and user for the log line.
type TransportError struct {
	Op     string // "load" or "persist"
	UserID string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed for user %s: %v", e.Op, e.UserID, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

/*
document.go - Persistence contract for mood documents

PURPOSE:
  Defines the interface between the mood domain and the backing document
  store. One document per user holds that user's whole MoodMap under a
  "moods" field. Different implementations can use SQLite, a cloud document
  store, or in-memory storage.

DOCUMENT PATH:
  Documents live at users/{uid}/data/moods. DocPath carries the uid; the
  backend maps it onto its own keying scheme.

MERGE-UPSERT CONTRACT:
  Upsert replaces the entire "moods" field of the document with the given
  map. Merge means "do not clobber sibling top-level fields of the
  document", NOT per-date-entry merging: the last writer of the moods field
  wins wholesale.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Durable SQLite backend
  - mood/store/memory.go:   In-memory for testing/dev

SEE ALSO:
  - controller.go: The only caller of this interface
*/
package mood

import (
	"context"
	"fmt"
)

// =============================================================================
// DOCUMENT PATH
// =============================================================================

// DocPath locates one user's mood document in the store.
type DocPath struct {
	UserID string
}

// MoodDocPath returns the path of the mood document for a user.
func MoodDocPath(userID string) DocPath {
	return DocPath{UserID: userID}
}

// String renders the logical path users/{uid}/data/moods.
func (p DocPath) String() string {
	return fmt.Sprintf("users/%s/data/moods", p.UserID)
}

// =============================================================================
// DOCUMENT STORE - Interface for mood persistence
// =============================================================================

// DocumentStore handles persistence of mood documents.
type DocumentStore interface {
	// Get returns the moods field of the document at path.
	// Returns ErrDocumentNotFound if no document exists there.
	Get(ctx context.Context, path DocPath) (MoodMap, error)

	// Upsert writes moods as the document's entire "moods" field with
	// merge semantics: sibling top-level fields of an existing document
	// are preserved, and a missing document is created.
	Upsert(ctx context.Context, path DocPath, moods MoodMap) error
}

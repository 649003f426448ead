/*
controller.go - Mood store controller and identity gate

PURPOSE:
  The Controller owns one user's MoodMap and every interaction with the
  document store. It subscribes to an auth.Provider and suppresses all
  operations until an identity is established; the absent-to-present
  transition triggers exactly one load.

STATE MACHINE:
  Unauthenticated (initial) -> Authenticated(uid) (terminal).
  Re-authentication with the unchanged uid is an idempotent no-op.
  Sign-out is not modeled.

OPERATION CONTRACT:
  Load:    full overwrite of the in-memory map from the document; a missing
           document means fresh empty state; a transport failure is logged
           and leaves the prior map intact.
  SetMood: synchronous local mutation of exactly one key; always succeeds
           once authenticated, for any value (unknown moods render blank).
  Persist: writes the entire MoodMap via merge-upsert and returns a typed
           result. The local mutation is never rolled back on failure: the
           page already reflects the change optimistically, and the caller
           may ignore the result. No batching, no debounce - one selection,
           one persist.

ORDERING GUARD:
  A load response that completes after an intervening mutation must not
  clobber the newer local state. The controller counts mutations; a load
  captures the count when it starts and discards its result if the count
  moved while the fetch was in flight.

CONCURRENCY:
  The HTTP server calls in from multiple goroutines, so MoodMap access is
  guarded by a mutex. Store calls run outside the lock.

SEE ALSO:
  - document.go: The DocumentStore contract
  - auth/provider.go: The identity source
*/
package mood

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/warp/mood-calendar/auth"
	"github.com/warp/mood-calendar/calendar"
)

// =============================================================================
// PERSIST RESULT
// =============================================================================

type PersistStatus string

const (
	// StatusSaved means the document write succeeded.
	StatusSaved PersistStatus = "saved"
	// StatusSkipped means the gate suppressed the call (no identity yet)
	// or no store is wired.
	StatusSkipped PersistStatus = "skipped"
	// StatusFailed means the write hit a transport failure. The local
	// mutation stands.
	StatusFailed PersistStatus = "failed"
)

// PersistResult is the typed outcome of a Persist call. Callers may ignore
// it; the failure path is explicit but never blocking.
type PersistResult struct {
	Status PersistStatus
	Err    error
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns one user's MoodMap. Create with NewController, then Bind
// to an auth.Provider; all operations are no-ops until the provider
// delivers an identity.
type Controller struct {
	store DocumentStore
	cache *FileCache // optional local single-slot cache
	log   *slog.Logger

	mu        sync.Mutex
	userID    string // "" until authenticated
	moods     MoodMap
	mutations uint64 // bumped on every SetMood; loads use it to detect staleness
}

// Option configures a Controller.
type Option func(*Controller)

// WithCache enables the local single-slot cache: read once at construction
// as fallback initial state, written through on every mutation.
func WithCache(c *FileCache) Option {
	return func(ctl *Controller) { ctl.cache = c }
}

// NewController creates an unauthenticated controller backed by store.
// store may be nil in the local-only variant; gated operations then skip.
func NewController(store DocumentStore, log *slog.Logger, opts ...Option) *Controller {
	if log == nil {
		log = slog.Default()
	}
	c := &Controller{
		store: store,
		log:   log,
		moods: make(MoodMap),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache != nil {
		if cached, err := c.cache.Read(); err != nil {
			c.log.Warn("local cache unreadable, starting empty", "err", err)
		} else if cached != nil {
			c.moods = cached
		}
	}
	return c
}

// Bind subscribes the controller to provider. The first non-nil identity
// authenticates the controller and triggers the load. Returns the
// unsubscribe handle.
func (c *Controller) Bind(provider auth.Provider) func() {
	return provider.OnIdentityChange(func(id *auth.Identity) {
		if id == nil {
			return
		}
		c.establish(id.UID)
	})
}

func (c *Controller) establish(uid string) {
	c.mu.Lock()
	switch c.userID {
	case "":
		c.userID = uid
	case uid:
		// Idempotent re-authentication: no reload.
		c.mu.Unlock()
		return
	default:
		// Identity is never cleared in this scope; a different uid on an
		// already-bound controller is a wiring fault, not a transition.
		c.mu.Unlock()
		c.log.Warn("ignoring identity change on bound controller", "have", c.userID, "got", uid)
		return
	}
	c.mu.Unlock()

	c.log.Info("identity established", "user", uid)
	if err := c.Load(context.Background()); err != nil {
		c.log.Error("initial load failed", "user", uid, "err", err)
	}
}

// Authenticated reports whether an identity has been established.
func (c *Controller) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID != ""
}

// =============================================================================
// LOAD
// =============================================================================

// Load replaces the in-memory MoodMap with the remote document's contents.
// A missing document resets the map to empty. A transport failure is
// returned (and logged) but leaves the prior map untouched - the page keeps
// rendering what it had. A load superseded by an intervening mutation is
// discarded.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	uid := c.userID
	startGen := c.mutations
	c.mu.Unlock()

	if uid == "" {
		return nil // gate: suppressed, not an error
	}
	if c.store == nil {
		c.log.Warn("load skipped, no document store wired")
		return nil
	}

	loaded, err := c.store.Get(ctx, MoodDocPath(uid))
	switch {
	case errors.Is(err, ErrDocumentNotFound):
		loaded = make(MoodMap) // fresh empty state
	case err != nil:
		terr := &TransportError{Op: "load", UserID: uid, Err: err}
		c.log.Error("load failed, keeping in-memory state", "user", uid, "err", err)
		return terr
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mutations != startGen {
		// A SetMood landed while the fetch was in flight; the response is
		// stale and must not overwrite newer local state.
		c.log.Warn("discarding stale load response", "user", uid)
		return nil
	}
	c.moods = loaded
	return nil
}

// =============================================================================
// MUTATION + PERSIST
// =============================================================================

// SetMood assigns mood to the day identified by key. Gated: returns false
// without effect while unauthenticated. Any value is accepted; values
// outside the closed set simply render without a glyph.
func (c *Controller) SetMood(key calendar.DateKey, mood Mood) bool {
	c.mu.Lock()
	if c.userID == "" {
		c.mu.Unlock()
		return false
	}
	c.moods[key] = mood
	c.mutations++
	snapshot := c.moods.Clone()
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.Write(snapshot); err != nil {
			c.log.Warn("local cache write failed", "err", err)
		}
	}
	return true
}

// Persist writes the entire current MoodMap to the document store with
// merge-upsert semantics. Each user selection is an independent
// SetMood+Persist pair.
func (c *Controller) Persist(ctx context.Context) PersistResult {
	c.mu.Lock()
	uid := c.userID
	snapshot := c.moods.Clone()
	c.mu.Unlock()

	if uid == "" {
		return PersistResult{Status: StatusSkipped, Err: ErrNoIdentity}
	}
	if c.store == nil {
		return PersistResult{Status: StatusSkipped, Err: ErrStoreUnavailable}
	}

	if err := c.store.Upsert(ctx, MoodDocPath(uid), snapshot); err != nil {
		terr := &TransportError{Op: "persist", UserID: uid, Err: err}
		c.log.Error("persist failed, local state stands", "user", uid, "err", err)
		return PersistResult{Status: StatusFailed, Err: terr}
	}
	return PersistResult{Status: StatusSaved}
}

// =============================================================================
// READS
// =============================================================================

// MoodFor returns the mood assigned to key, if any.
func (c *Controller) MoodFor(key calendar.DateKey) (Mood, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.moods[key]
	return m, ok
}

// Moods returns a copy of the current MoodMap.
func (c *Controller) Moods() MoodMap {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moods.Clone()
}

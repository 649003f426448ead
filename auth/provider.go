/*
Package auth provides the identity collaborators for the mood calendar.

PURPOSE:
  The mood controller must not run load or persist until a user identity
  exists. This package defines the Provider contract the controller
  subscribes to, and an in-process Registry implementation that the HTTP
  session layer drives.

KEY CONCEPTS:
  - Identity: a stable user identifier, established once per process
  - Provider: an explicit subscription interface; handlers observe
    identity transitions and may unsubscribe
  - Registry: the in-process Provider; SignIn establishes identity

LIFECYCLE:
  Identity is absent at startup and set once on successful sign-in.
  Repeat sign-ins with the same uid are idempotent no-ops: subscribers are
  not re-notified. Sign-out is not modeled.

USAGE:
  reg := auth.NewRegistry()
  unsub := reg.OnIdentityChange(func(id *auth.Identity) { ... })
  defer unsub()
  reg.SignIn("user-123")

SEE ALSO:
  - mood/controller.go: The subscriber that gates on identity
  - auth/session.go: Bearer-token sessions for the HTTP surface
*/
package auth

import "sync"

// =============================================================================
// IDENTITY
// =============================================================================

// Identity is an established user identity. UID is stable for the lifetime
// of the account and scopes all persisted state.
type Identity struct {
	UID string
}

// Handler observes identity transitions. It receives nil while no identity
// is established and a non-nil Identity once one is.
type Handler func(id *Identity)

// Provider emits identity state to subscribers. Each handler is invoked
// once immediately upon subscription with the current state, then on every
// transition. The returned function unsubscribes the handler.
type Provider interface {
	OnIdentityChange(h Handler) (unsubscribe func())
}

// =============================================================================
// REGISTRY - In-process Provider
// =============================================================================

// Registry is the in-process identity source. The HTTP session layer calls
// SignIn when a session is issued; everything downstream observes the
// transition through the Provider interface.
type Registry struct {
	mu       sync.Mutex
	current  *Identity
	nextID   int
	handlers map[int]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[int]Handler)}
}

// OnIdentityChange subscribes h. h is called synchronously with the current
// state before OnIdentityChange returns, so a subscriber never misses an
// identity that was established before it registered.
func (r *Registry) OnIdentityChange(h Handler) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.handlers[id] = h
	current := r.current
	r.mu.Unlock()

	h(current)

	return func() {
		r.mu.Lock()
		delete(r.handlers, id)
		r.mu.Unlock()
	}
}

// SignIn establishes the identity uid and notifies subscribers. A repeat
// sign-in with the unchanged uid is an idempotent no-op. Returns the
// identity now in effect.
func (r *Registry) SignIn(uid string) Identity {
	r.mu.Lock()
	if r.current != nil && r.current.UID == uid {
		id := *r.current
		r.mu.Unlock()
		return id
	}
	r.current = &Identity{UID: uid}
	id := *r.current
	hs := make([]Handler, 0, len(r.handlers))
	for _, h := range r.handlers {
		hs = append(hs, h)
	}
	r.mu.Unlock()

	for _, h := range hs {
		h(&id)
	}
	return id
}

// Current returns the established identity, or nil if none.
func (r *Registry) Current() *Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil
	}
	id := *r.current
	return &id
}

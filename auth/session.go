/*
session.go - Bearer-token sessions for the HTTP surface

PURPOSE:
  The UI authenticates once and then presents a bearer token on every
  request. This file defines the session record, the persistence contract
  for tokens, and the Issuer that mints them.

TOKENS:
  Tokens are random UUIDs - opaque handles, not claims. Resolution always
  goes through the SessionStore.

SEE ALSO:
  - store/sqlite/sqlite.go: Durable SessionStore
  - api/server.go: Middleware that resolves tokens to user IDs
*/
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a token does not resolve to a session.
var ErrSessionNotFound = errors.New("session not found")

// Session links a bearer token to a user.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
}

// SessionStore persists sessions. Implementations must treat tokens as
// unique; saving a duplicate token is an error.
type SessionStore interface {
	SaveSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
}

// =============================================================================
// ISSUER
// =============================================================================

// Issuer mints and resolves bearer tokens.
type Issuer struct {
	store SessionStore
}

func NewIssuer(store SessionStore) *Issuer {
	return &Issuer{store: store}
}

// Issue creates a session for uid and returns it.
func (i *Issuer) Issue(ctx context.Context, uid string) (Session, error) {
	s := Session{
		Token:     uuid.NewString(),
		UserID:    uid,
		CreatedAt: time.Now().UTC(),
	}
	if err := i.store.SaveSession(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Resolve returns the user ID behind token, or ErrSessionNotFound.
func (i *Issuer) Resolve(ctx context.Context, token string) (string, error) {
	s, err := i.store.GetSession(ctx, token)
	if err != nil {
		return "", err
	}
	return s.UserID, nil
}

// Package store provides in-memory backend implementations for testing/dev.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/warp/mood-calendar/auth"
	"github.com/warp/mood-calendar/mood"
)

// =============================================================================
// MEMORY DOCUMENT STORE - In-memory implementation (for testing/dev)
// =============================================================================

// document mirrors what a real document store holds at one path: the moods
// field plus whatever sibling fields other features may have written.
type document struct {
	moods    mood.MoodMap
	siblings map[string]string
}

type Memory struct {
	mu   sync.RWMutex
	docs map[string]*document

	// Fault injection for transport-failure tests. When set, the matching
	// operation returns the error instead of touching state.
	GetErr    error
	UpsertErr error
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]*document)}
}

// Get returns the moods field at path, or mood.ErrDocumentNotFound.
func (m *Memory) Get(_ context.Context, path mood.DocPath) (mood.MoodMap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	doc, ok := m.docs[path.String()]
	if !ok {
		return nil, mood.ErrDocumentNotFound
	}
	return doc.moods.Clone(), nil
}

// Upsert replaces the moods field with merge semantics: sibling fields of
// an existing document are preserved.
func (m *Memory) Upsert(_ context.Context, path mood.DocPath, moods mood.MoodMap) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	doc, ok := m.docs[path.String()]
	if !ok {
		doc = &document{siblings: make(map[string]string)}
		m.docs[path.String()] = doc
	}
	doc.moods = moods.Clone()
	return nil
}

// SetSibling plants a non-moods top-level field at path. Tests use it to
// assert that Upsert merges rather than clobbers.
func (m *Memory) SetSibling(path mood.DocPath, field, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[path.String()]
	if !ok {
		doc = &document{siblings: make(map[string]string)}
		m.docs[path.String()] = doc
	}
	doc.siblings[field] = value
}

// Sibling reads a non-moods top-level field back.
func (m *Memory) Sibling(path mood.DocPath, field string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[path.String()]
	if !ok {
		return "", false
	}
	v, ok := doc.siblings[field]
	return v, ok
}

// =============================================================================
// MEMORY SESSION STORE
// =============================================================================

// MemorySessions is an in-memory auth.SessionStore.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]auth.Session
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]auth.Session)}
}

// SaveSession stores s. A token that is already present is rejected, the
// same way the sqlite backend's primary key rejects it.
func (m *MemorySessions) SaveSession(_ context.Context, s auth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.Token]; ok {
		return fmt.Errorf("save session: duplicate token %s", s.Token)
	}
	m.sessions[s.Token] = s
	return nil
}

func (m *MemorySessions) GetSession(_ context.Context, token string) (*auth.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	return &s, nil
}

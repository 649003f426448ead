/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements the document store behind the mood controller and the session
  store behind the bearer-token layer. In production the same patterns
  apply to a hosted document store - only the dialect differs.

INTERFACES IMPLEMENTED:
  mood.DocumentStore: One document per user at users/{uid}/data/moods
  auth.SessionStore:  Bearer-token sessions

MERGE-UPSERT ENFORCEMENT:
  A mood document row carries the moods field and a siblings JSON object
  side by side. Upsert only touches the moods column, so top-level fields
  written by other features survive every mood save. This is the document
  contract: replace the moods field wholesale, clobber nothing else.

KEY TABLES:
  mood_documents: path (PK), user_id, moods_json, siblings_json, updated_at
  sessions:       token (PK), user_id, created_at

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so concurrent readers
  don't block the single writer.

USAGE:
  store, err := sqlite.New("./data/moods.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - mood/document.go: Interface definition and merge contract
  - mood/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/mood-calendar/auth"
	"github.com/warp/mood-calendar/mood"
)

// Store implements mood.DocumentStore and auth.SessionStore using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- One document per user; moods and sibling fields live side by side
	-- so a moods write can never clobber a sibling.
	CREATE TABLE IF NOT EXISTS mood_documents (
		path          TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL,
		moods_json    TEXT NOT NULL DEFAULT '{}',
		siblings_json TEXT NOT NULL DEFAULT '{}',
		updated_at    TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_mood_documents_user
		ON mood_documents(user_id);

	CREATE TABLE IF NOT EXISTS sessions (
		token      TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user
		ON sessions(user_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DOCUMENT STORE
// =============================================================================

// Get returns the moods field of the document at path, or
// mood.ErrDocumentNotFound when no document exists there.
func (s *Store) Get(ctx context.Context, path mood.DocPath) (mood.MoodMap, error) {
	var moodsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT moods_json FROM mood_documents WHERE path = ?`, path.String(),
	).Scan(&moodsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, mood.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", path, err)
	}

	var mm mood.MoodMap
	if err := json.Unmarshal([]byte(moodsJSON), &mm); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", path, err)
	}
	if mm == nil {
		mm = make(mood.MoodMap)
	}
	return mm, nil
}

// Upsert replaces the moods field of the document at path, creating the
// document if absent. Sibling fields are untouched: the statement only
// writes the moods column.
func (s *Store) Upsert(ctx context.Context, path mood.DocPath, moods mood.MoodMap) error {
	data, err := json.Marshal(moods)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", path, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO mood_documents (path, user_id, moods_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			moods_json = excluded.moods_json,
			updated_at = excluded.updated_at`,
		path.String(), path.UserID, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", path, err)
	}
	return nil
}

// SetSiblingField writes a non-moods top-level field on the document at
// path, creating the document if absent. Mood saves never touch these.
func (s *Store) SetSiblingField(ctx context.Context, path mood.DocPath, field, value string) error {
	var siblingsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT siblings_json FROM mood_documents WHERE path = ?`, path.String(),
	).Scan(&siblingsJSON)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		siblingsJSON = "{}"
	case err != nil:
		return fmt.Errorf("get siblings %s: %w", path, err)
	}

	siblings := map[string]string{}
	if err := json.Unmarshal([]byte(siblingsJSON), &siblings); err != nil {
		return fmt.Errorf("decode siblings %s: %w", path, err)
	}
	siblings[field] = value
	data, err := json.Marshal(siblings)
	if err != nil {
		return fmt.Errorf("encode siblings %s: %w", path, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO mood_documents (path, user_id, siblings_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			siblings_json = excluded.siblings_json,
			updated_at = excluded.updated_at`,
		path.String(), path.UserID, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set sibling %s: %w", path, err)
	}
	return nil
}

// SiblingField reads a non-moods top-level field back.
func (s *Store) SiblingField(ctx context.Context, path mood.DocPath, field string) (string, bool, error) {
	var siblingsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT siblings_json FROM mood_documents WHERE path = ?`, path.String(),
	).Scan(&siblingsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get siblings %s: %w", path, err)
	}

	siblings := map[string]string{}
	if err := json.Unmarshal([]byte(siblingsJSON), &siblings); err != nil {
		return "", false, fmt.Errorf("decode siblings %s: %w", path, err)
	}
	v, ok := siblings[field]
	return v, ok, nil
}

// =============================================================================
// SESSION STORE
// =============================================================================

// SaveSession persists a bearer-token session.
func (s *Store) SaveSession(ctx context.Context, sess auth.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, created_at) VALUES (?, ?, ?)`,
		sess.Token, sess.UserID, sess.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetSession resolves a bearer token, or returns auth.ErrSessionNotFound.
func (s *Store) GetSession(ctx context.Context, token string) (*auth.Session, error) {
	var sess auth.Session
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT token, user_id, created_at FROM sessions WHERE token = ?`, token,
	).Scan(&sess.Token, &sess.UserID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		sess.CreatedAt = t
	}
	return &sess, nil
}

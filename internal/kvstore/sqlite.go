package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a local SQLite database. Several
// sessions can share one database file; every row is scoped by session id.
type SQLiteStore struct {
	db        *sqlx.DB
	sessionID string
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, enables
// WAL mode, runs pending schema migrations and registers the session.
func NewSQLiteStore(dbPath string, sessionID string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases coherent and
	// serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, sessionID: sessionID}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if _, err := db.Exec(
		"INSERT OR IGNORE INTO sessions (id, started_at) VALUES (?, ?)",
		sessionID, time.Now().UTC(),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("registering session %s: %w", sessionID, err)
	}

	return s, nil
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SessionID returns the session this store is scoped to.
func (s *SQLiteStore) SessionID() string {
	return s.sessionID
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value,
		"SELECT value FROM session_values WHERE session_id = ? AND key = ?",
		s.sessionID, key,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	const query = `
		INSERT INTO session_values (session_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query,
		s.sessionID, key, value, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM session_values WHERE session_id = ? AND key = ?",
		s.sessionID, key,
	); err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

// Clear ends the session: its values and its registration are removed.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM session_values WHERE session_id = ?", s.sessionID,
	); err != nil {
		return fmt.Errorf("clearing session %s: %w", s.sessionID, err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM sessions WHERE id = ?", s.sessionID,
	); err != nil {
		return fmt.Errorf("removing session %s: %w", s.sessionID, err)
	}

	return tx.Commit()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

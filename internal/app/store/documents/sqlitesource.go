package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS analysis_documents (
  name       TEXT PRIMARY KEY,
  body       TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`

// SQLiteSource reads documents from an embedded SQLite database.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and makes sure
// the analysis_documents table exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create %s table: %w", Collection, err)
	}
	return &SQLiteSource{db: db}, nil
}

func (s *SQLiteSource) Kind() string { return KindSQLite }

func (s *SQLiteSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM analysis_documents WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(KindSQLite, name, err)
	}
	if err != nil {
		return nil, &AcquisitionError{Document: name, Source: KindSQLite, Err: err}
	}
	return []byte(body), nil
}

// Put stores body under name, replacing any previous version. body must be
// valid JSON; it is stored verbatim so key order is kept.
func (s *SQLiteSource) Put(ctx context.Context, name string, body []byte) error {
	if !json.Valid(body) {
		return fmt.Errorf("decode %s: invalid JSON", name)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_documents (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		name, string(body), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *SQLiteSource) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

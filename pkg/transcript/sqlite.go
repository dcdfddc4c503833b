package transcript

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists entries in a single-table SQLite database. Use
// ":memory:" for an in-memory database.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS entries (
	hash        TEXT PRIMARY KEY,
	parent_hash TEXT,
	record      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_parent ON entries(parent_hash);
`

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, entry *Entry) error {
	record, err := json.Marshal(entry.Record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	var parent sql.NullString
	if entry.ParentHash != nil {
		parent = sql.NullString{String: *entry.ParentHash, Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO entries (hash, parent_hash, record) VALUES (?, ?, ?)`,
		entry.Hash, parent, string(record),
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, hash string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT hash, parent_hash, record FROM entries WHERE hash = ?`, hash)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound{Hash: hash}
	}
	return entry, err
}

func (s *SQLiteStore) Has(ctx context.Context, hash string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM entries WHERE hash = ?`, hash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query entry: %w", err)
	}
	return count > 0, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*Entry, error) {
	return s.queryEntries(ctx, `SELECT hash, parent_hash, record FROM entries`)
}

func (s *SQLiteStore) Roots(ctx context.Context) ([]*Entry, error) {
	return s.queryEntries(ctx,
		`SELECT hash, parent_hash, record FROM entries WHERE parent_hash IS NULL`)
}

func (s *SQLiteStore) Leaves(ctx context.Context) ([]*Entry, error) {
	return s.queryEntries(ctx, `
		SELECT hash, parent_hash, record FROM entries
		WHERE hash NOT IN (
			SELECT parent_hash FROM entries WHERE parent_hash IS NOT NULL
		)`)
}

func (s *SQLiteStore) Ancestry(ctx context.Context, hash string) ([]*Entry, error) {
	var chain []*Entry
	current := hash
	for {
		entry, err := s.Get(ctx, current)
		if err != nil {
			return nil, err
		}
		chain = append(chain, entry)
		if entry.ParentHash == nil {
			return chain, nil
		}
		current = *entry.ParentHash
	}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryEntries(ctx context.Context, query string, args ...any) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var entry Entry
	var parent sql.NullString
	var record string

	if err := row.Scan(&entry.Hash, &parent, &record); err != nil {
		return nil, err
	}

	if parent.Valid {
		entry.ParentHash = &parent.String
	}
	if err := json.Unmarshal([]byte(record), &entry.Record); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &entry, nil
}

// Package corpus persists Brainfuck source programs found interesting by
// the differential-fuzzing harness (ones that disagree across
// optimization levels, or that ran clean and are worth keeping as
// regression fixtures) behind database/sql, the way the teacher wires
// its connection layer: a driver name picks the backend, blank imports
// register the drivers, sql.Open does the rest.
package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Entry is one stored program.
type Entry struct {
	ID        string
	Hash      string
	Source    string
	Note      string
	CreatedAt time.Time
}

// Store wraps a *sql.DB holding a single "programs" table, deduplicated
// by content hash.
type Store struct {
	db *sql.DB
}

// Open connects to the backend named by driverName (e.g. "sqlite",
// "sqlite3", "mysql", "postgres", "sqlserver") at dsn and ensures the
// programs table exists. For "sqlite" and "sqlite3", dsn is a file path
// or ":memory:".
func Open(driverName, dsn string) (*Store, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %s: %w", driverName, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("corpus: ping %s: %w", driverName, err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS programs (
	id         TEXT PRIMARY KEY,
	hash       TEXT NOT NULL UNIQUE,
	source     TEXT NOT NULL,
	note       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("corpus: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// hashSource returns the hex-encoded BLAKE2b-256 digest of the raw
// source bytes, including comment bytes the parser would ignore — two
// sources differing only in those bytes are stored as distinct entries.
func hashSource(src string) string {
	sum := blake2b.Sum256([]byte(src))
	return fmt.Sprintf("%x", sum)
}

// Add stores src, returning its existing entry ID unchanged if an
// identical source was already recorded.
func (s *Store) Add(ctx context.Context, src, note string) (id string, err error) {
	hash := hashSource(src)

	var existing string
	err = s.db.QueryRowContext(ctx, `SELECT id FROM programs WHERE hash = ?`, hash).Scan(&existing)
	switch {
	case err == nil:
		return existing, nil
	case err != sql.ErrNoRows:
		return "", fmt.Errorf("corpus: lookup by hash: %w", err)
	}

	id = uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO programs (id, hash, source, note, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, hash, src, note, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("corpus: insert: %w", err)
	}
	return id, nil
}

// Get looks up one entry by ID.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	var e Entry
	var createdAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT id, hash, source, note, created_at FROM programs WHERE id = ?`, id,
	).Scan(&e.ID, &e.Hash, &e.Source, &e.Note, &createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("corpus: get %s: %w", id, err)
	}
	e.CreatedAt = createdAt
	return e, nil
}

// List returns every stored entry, most recently added first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, hash, source, note, created_at FROM programs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("corpus: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt time.Time
		if err := rows.Scan(&e.ID, &e.Hash, &e.Source, &e.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("corpus: scan: %w", err)
		}
		e.CreatedAt = createdAt
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

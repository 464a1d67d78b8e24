// Package cache persists word explanations in SQLite so a gloss is paid
// for once per sentence context.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Entry is one cached explanation.
type Entry struct {
	Key         string
	Word        string
	Sentence    string
	Meaning     string
	Explanation string
}

// Store wraps the explanation cache table.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS explain_cache (
	cache_key      TEXT PRIMARY KEY,
	word           TEXT NOT NULL,
	sentence       TEXT NOT NULL,
	meaning_zh     TEXT NOT NULL,
	explanation_zh TEXT NOT NULL
)`

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// The driver is in-process; one connection avoids SQLITE_BUSY on
	// concurrent writes.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the entry for key, or nil when absent.
func (s *Store) Get(ctx context.Context, key string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT cache_key, word, sentence, meaning_zh, explanation_zh
		 FROM explain_cache WHERE cache_key = ?`, key)
	var e Entry
	err := row.Scan(&e.Key, &e.Word, &e.Sentence, &e.Meaning, &e.Explanation)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	return &e, nil
}

// Put stores an entry. An existing key wins; concurrent writers racing on
// the same fingerprint both see a success.
func (s *Store) Put(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO explain_cache
		 (cache_key, word, sentence, meaning_zh, explanation_zh)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Key, e.Word, e.Sentence, e.Meaning, e.Explanation)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Size returns the number of cached entries.
func (s *Store) Size(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM explain_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache size: %w", err)
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

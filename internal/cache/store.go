// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores extraction results so unchanged files are not
// scanned again. Results live in a SQLite database with a small LRU in
// front of it.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/spec-assembler/pkg/types"
)

const dbFile = "extract.db"

// Key identifies a cached extraction. A stored row is only valid for the
// same file contents: modification time, size and the SHA-256 of the bytes
// must all match.
type Key struct {
	Path      string
	Delimiter string
	ModTime   time.Time
	Size      int64
	Hash      string
}

type memKey struct {
	path      string
	delimiter string
}

type memEntry struct {
	modTime string
	size    int64
	hash    string
	content string
}

func (e memEntry) matches(modTime string, k Key) bool {
	return e.modTime == modTime && e.size == k.Size && e.hash == k.Hash
}

// Entry is one cached row, as listed by Entries.
type Entry struct {
	Path        string    `json:"path" yaml:"path"`
	Delimiter   string    `json:"delimiter" yaml:"delimiter"`
	ModTime     string    `json:"mod_time" yaml:"mod_time"`
	Size        int64     `json:"size" yaml:"size"`
	Hash        string    `json:"hash" yaml:"hash"`
	Bytes       int       `json:"bytes" yaml:"bytes"`
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
}

// Store manages the extraction cache database.
type Store struct {
	db  *sql.DB
	mem *lru.Cache[memKey, memEntry]
}

// Open opens or creates the cache database at cfg.Dir/extract.db.
func Open(cfg types.CacheConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	size := cfg.MemoryEntries
	if size <= 0 {
		size = types.DefaultMemoryEntries
	}
	mem, err := lru.New[memKey, memEntry](size)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating memory cache: %w", err)
	}

	s := &Store{db: db, mem: mem}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS extractions (
		path TEXT NOT NULL,
		delimiter TEXT NOT NULL,
		mod_time TEXT NOT NULL,
		size INTEGER NOT NULL,
		hash TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		extracted_at TEXT NOT NULL,
		PRIMARY KEY (path, delimiter)
	)`); err != nil {
		return err
	}

	// Databases written before the hash column existed get it added. Their
	// rows keep an empty hash and so never match.
	var n int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info('extractions') WHERE name = 'hash'`,
	).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.db.Exec(`ALTER TABLE extractions ADD COLUMN hash TEXT NOT NULL DEFAULT ''`); err != nil {
			return err
		}
	}
	return nil
}

func formatModTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Get returns the cached text for k. It reports a miss when there is no
// row or the stored modification time, size or hash differ.
func (s *Store) Get(ctx context.Context, k Key) (string, bool, error) {
	mk := memKey{path: k.Path, delimiter: k.Delimiter}
	modTime := formatModTime(k.ModTime)

	if e, ok := s.mem.Get(mk); ok && e.matches(modTime, k) {
		return e.content, true, nil
	}

	var e memEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT mod_time, size, hash, content FROM extractions WHERE path = ? AND delimiter = ?`,
		k.Path, k.Delimiter,
	).Scan(&e.modTime, &e.size, &e.hash, &e.content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying cache for %s: %w", k.Path, err)
	}
	if !e.matches(modTime, k) {
		return "", false, nil
	}

	s.mem.Add(mk, e)
	return e.content, true, nil
}

// Put stores content for k, replacing any earlier row for the same path
// and delimiter.
func (s *Store) Put(ctx context.Context, k Key, content string) error {
	modTime := formatModTime(k.ModTime)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extractions (path, delimiter, mod_time, size, hash, content, extracted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path, delimiter) DO UPDATE SET
			mod_time=excluded.mod_time, size=excluded.size, hash=excluded.hash,
			content=excluded.content, extracted_at=excluded.extracted_at`,
		k.Path, k.Delimiter, modTime, k.Size, k.Hash, content,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("storing cache entry for %s: %w", k.Path, err)
	}
	s.mem.Add(memKey{path: k.Path, delimiter: k.Delimiter}, memEntry{modTime: modTime, size: k.Size, hash: k.Hash, content: content})
	return nil
}

// Entries lists all cached rows ordered by path.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, delimiter, mod_time, size, hash, length(content), extracted_at
		 FROM extractions ORDER BY path, delimiter`)
	if err != nil {
		return nil, fmt.Errorf("listing cache entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var extractedAt string
		if err := rows.Scan(&e.Path, &e.Delimiter, &e.ModTime, &e.Size, &e.Hash, &e.Bytes, &extractedAt); err != nil {
			return nil, fmt.Errorf("scanning cache entry: %w", err)
		}
		e.ExtractedAt, _ = time.Parse(time.RFC3339Nano, extractedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes rows whose path is not in keep and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, keep []string) (int, error) {
	keepSet := make(map[string]bool, len(keep))
	for _, p := range keep {
		keepSet[p] = true
	}

	entries, err := s.Entries(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	removed := 0
	for _, e := range entries {
		if keepSet[e.Path] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM extractions WHERE path = ? AND delimiter = ?`, e.Path, e.Delimiter,
		); err != nil {
			return 0, fmt.Errorf("deleting cache entry for %s: %w", e.Path, err)
		}
		s.mem.Remove(memKey{path: e.Path, delimiter: e.Delimiter})
		removed++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing prune: %w", err)
	}
	return removed, nil
}

// Clear removes every cached row.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM extractions`); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	s.mem.Purge()
	return nil
}

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
)

// SQLite is a durable Store scoped by origin. Every origin sees its own
// keys, the way browser storage is scoped per site.
type SQLite struct {
	db            *sql.DB
	origin        string
	maxValueBytes int
}

// Entry describes a stored value without loading it.
type Entry struct {
	Key       string
	Size      int
	UpdatedAt time.Time
}

func NewSQLite(dbPath, origin string, maxValueBytes int) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent and serializes
	// writers, which is all a clipboard store needs.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, origin: origin, maxValueBytes: maxValueBytes}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

func (s *SQLite) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			origin TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (origin, key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_kv_updated_at ON kv(updated_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Origin returns the scope this store reads and writes.
func (s *SQLite) Origin() string {
	return s.origin
}

func (s *SQLite) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE origin = ? AND key = ?`, s.origin, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query key %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLite) Set(key, value string) error {
	if s.maxValueBytes > 0 && len(value) > s.maxValueBytes {
		return ErrQuotaExceeded
	}

	_, err := s.db.Exec(`
		INSERT INTO kv (origin, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(origin, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, s.origin, key, value)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrFull {
			return ErrQuotaExceeded
		}
		return fmt.Errorf("failed to store key %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE origin = ? AND key = ?`, s.origin, key); err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}

// Info returns metadata about key, if it is stored.
func (s *SQLite) Info(key string) (Entry, bool, error) {
	entry := Entry{Key: key}
	err := s.db.QueryRow(`SELECT length(CAST(value AS BLOB)), updated_at FROM kv WHERE origin = ? AND key = ?`, s.origin, key).
		Scan(&entry.Size, &entry.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to query key %q: %w", key, err)
	}
	return entry, true, nil
}

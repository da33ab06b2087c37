package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitweek/internal/migration"
	"github.com/julianstephens/habitweek/internal/storage"
	"github.com/julianstephens/habitweek/migrations"
)

// Store is a storage.KV backed by a local SQLite database file.
type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

var _ storage.KV = (*Store)(nil)

func (s *Store) Open() error {
	if s.db != nil {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		s.db.Close()
		s.db = nil
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// MigrationRunner returns a runner over the embedded sqlite migrations.
// The store must be open.
func (s *Store) MigrationRunner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.DriverSQLite)
}

func (s *Store) runMigrations() error {
	runner, err := s.MigrationRunner()
	if err != nil {
		return err
	}
	_, err = runner.Apply()
	return err
}

func (s *Store) Get(key string) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("storage not opened")
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM kv_entries WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	if s.db == nil {
		return fmt.Errorf("storage not opened")
	}

	_, err := s.db.Exec(`
		INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if s.db == nil {
		return fmt.Errorf("storage not opened")
	}

	if _, err := s.db.Exec("DELETE FROM kv_entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Location() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Open.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver for database/sql

	"github.com/pkordes/trip-planner/internal/domain"
)

// OpenSQLite opens (or creates) a SQLite database at path with WAL journaling.
// The parent directory is created if needed.
func OpenSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: %w", err)
	}
	// A single connection keeps writers from tripping over SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: ping: %w", err)
	}
	return sqlDB, nil
}

// sqliteBlobStore is the SQLite implementation of BlobStore.
type sqliteBlobStore struct {
	db *sql.DB
}

// NewSQLiteBlobStore constructs a BlobStore backed by the kv_blobs table of
// an open SQLite database.
func NewSQLiteBlobStore(db *sql.DB) BlobStore {
	return &sqliteBlobStore{db: db}
}

// Get reads the value stored under key.
func (r *sqliteBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM kv_blobs WHERE key = ?`

	var value string
	err := r.db.QueryRowContext(ctx, q, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("repo.BlobStore.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.BlobStore.Get: %w", err)
	}
	return []byte(value), nil
}

// Put upserts the value stored under key.
func (r *sqliteBlobStore) Put(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO kv_blobs (key, value)
		VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE
		SET value      = excluded.value,
		    updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, q, key, string(value)); err != nil {
		return fmt.Errorf("repo.BlobStore.Put: %w", err)
	}
	return nil
}

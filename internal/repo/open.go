package repo

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
)

// Storage drivers accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Options selects and configures a storage backend.
type Options struct {
	Driver      string
	SQLitePath  string
	DatabaseURL string
}

// Open connects to the configured backend, applies migrations, and returns
// the BlobStore together with a function that releases its resources.
func Open(ctx context.Context, opts Options, log *slog.Logger) (BlobStore, func(), error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemBlobStore(), func() {}, nil

	case DriverSQLite, "":
		sqlDB, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := Migrate(ctx, sqlDB, goose.DialectSQLite3, log); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		return NewSQLiteBlobStore(sqlDB), func() { _ = sqlDB.Close() }, nil

	case DriverPostgres:
		if opts.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("repo.Open: DATABASE_URL is required for the postgres driver")
		}

		// goose needs database/sql; the blob store itself runs on the pool.
		sqlDB, err := sql.Open("pgx", opts.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("repo.Open: open: %w", err)
		}
		err = Migrate(ctx, sqlDB, goose.DialectPostgres, log)
		_ = sqlDB.Close()
		if err != nil {
			return nil, nil, err
		}

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("repo.Open: create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repo.Open: ping: %w", err)
		}
		return NewPostgresBlobStore(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("repo.Open: unknown storage driver %q", opts.Driver)
	}
}

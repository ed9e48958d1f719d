// Package migrations carries the goose migrations for the kv_blobs table.
// The same files run against SQLite and Postgres.
package migrations

import "embed"

// FS is handed to goose.NewProvider by repo.Migrate and the schema tests.
//
//go:embed *.sql
var FS embed.FS

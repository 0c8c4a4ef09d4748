package storage

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
)

var postgresDialect = dialect{
	name: "postgres",
	schema: `
		CREATE TABLE IF NOT EXISTS session_snapshots (
		  key        TEXT PRIMARY KEY,
		  value      BYTEA NOT NULL,
		  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	get: `SELECT value FROM session_snapshots WHERE key=$1`,
	put: `
		INSERT INTO session_snapshots (key, value)
		VALUES ($1,$2)
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`,
	delete: `DELETE FROM session_snapshots WHERE key=$1`,
}

func NewPostgres(ctx context.Context, dsn string) (*SQL, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return newSQL(ctx, db, postgresDialect)
}

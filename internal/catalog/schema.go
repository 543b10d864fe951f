// Package catalog keeps an in-memory SQLite catalog of the posts already
// present in the destination directory. It lives for one run only.
package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS posts (
	path      TEXT PRIMARY KEY,
	title     TEXT NOT NULL DEFAULT '',
	date      DATETIME,
	draft     INTEGER NOT NULL DEFAULT 0,
	source_id TEXT NOT NULL DEFAULT '',
	checksum  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_posts_source ON posts(source_id);
CREATE INDEX IF NOT EXISTS idx_posts_draft ON posts(draft);
`

// DB wraps a sql.DB with catalog operations.
type DB struct {
	conn *sql.DB
}

// Open opens the database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open db: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

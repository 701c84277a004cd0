package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (or creates) the SQLite file at dbPath.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, unavailable("open sqlite", err)
	}
	// SQLite only supports one writer, so a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	return newSQLStore(ctx, db, sqliteDialect)
}

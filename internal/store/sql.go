package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
)

// SQLStore implements Backend on top of database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// openSQL opens a connection with the dialect's driver, checks it is reachable and runs migrations.
func openSQL(ctx context.Context, d dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, unavailable("open "+d.driverName, err)
	}
	// A one-shot CLI never needs more than a couple of connections.
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	return newSQLStore(ctx, db, d)
}

func newSQLStore(ctx context.Context, db *sql.DB, d dialect) (*SQLStore, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, unavailable("connect "+d.driverName, err)
	}

	s := &SQLStore{db: db, dialect: d}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) migrate(ctx context.Context) error {
	for _, m := range s.dialect.migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return unavailable("migrate", err)
		}
	}
	return nil
}

func (s *SQLStore) GetAll(ctx context.Context, project string) ([]SecretRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		s.dialect.rebind(`SELECT project, path, content FROM secrets WHERE project = ?`),
		project,
	)
	if err != nil {
		return nil, unavailable("list secrets", err)
	}
	defer rows.Close()

	records := []SecretRecord{}
	for rows.Next() {
		var r SecretRecord
		if err := rows.Scan(&r.Project, &r.Path, &r.Content); err != nil {
			return nil, unavailable("scan secret", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list secrets", err)
	}
	return records, nil
}

func (s *SQLStore) GetOne(ctx context.Context, project, path string) (*SecretRecord, error) {
	r := &SecretRecord{}
	err := s.db.QueryRowContext(ctx,
		s.dialect.rebind(`SELECT project, path, content FROM secrets WHERE project = ? AND path = ?`),
		project, path,
	).Scan(&r.Project, &r.Path, &r.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("get secret", err)
	}
	return r, nil
}

func (s *SQLStore) Upsert(ctx context.Context, record SecretRecord) error {
	_, err := s.db.ExecContext(ctx, s.dialect.rebind(s.dialect.upsertSecret),
		record.Project, record.Path, record.Content,
	)
	if err != nil {
		return unavailable("store secret", err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, project, path string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		s.dialect.rebind(`DELETE FROM secrets WHERE project = ? AND path = ?`),
		project, path,
	)
	if err != nil {
		return 0, unavailable("delete secret", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, unavailable("delete secret", err)
	}
	return deleted, nil
}

func (s *SQLStore) ListConfigs(ctx context.Context) ([]ConfigRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT filename, shorthand, content FROM configs ORDER BY shorthand`,
	)
	if err != nil {
		return nil, unavailable("list configs", err)
	}
	defer rows.Close()

	records := []ConfigRecord{}
	for rows.Next() {
		var r ConfigRecord
		if err := rows.Scan(&r.Filename, &r.Shorthand, &r.Content); err != nil {
			return nil, unavailable("scan config", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list configs", err)
	}
	return records, nil
}

func (s *SQLStore) GetConfigByShorthand(ctx context.Context, shorthand string) (*ConfigRecord, error) {
	r := &ConfigRecord{}
	err := s.db.QueryRowContext(ctx,
		s.dialect.rebind(`SELECT filename, shorthand, content FROM configs WHERE shorthand = ?`),
		shorthand,
	).Scan(&r.Filename, &r.Shorthand, &r.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("get config", err)
	}
	return r, nil
}

// AddConfig checks both unique keys and inserts inside one transaction.
func (s *SQLStore) AddConfig(ctx context.Context, record ConfigRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		s.dialect.rebind(`SELECT COUNT(*) FROM configs WHERE shorthand = ?`), record.Shorthand,
	).Scan(&count); err != nil {
		return unavailable("check shorthand", err)
	}
	if count != 0 {
		return fmt.Errorf("%q: %w", record.Shorthand, nerrors.ErrShorthandExists)
	}

	if err := tx.QueryRowContext(ctx,
		s.dialect.rebind(`SELECT COUNT(*) FROM configs WHERE filename = ?`), record.Filename,
	).Scan(&count); err != nil {
		return unavailable("check filename", err)
	}
	if count != 0 {
		return fmt.Errorf("%q: %w", record.Filename, nerrors.ErrFilenameExists)
	}

	if _, err := tx.ExecContext(ctx,
		s.dialect.rebind(`INSERT INTO configs (filename, shorthand, content) VALUES (?, ?, ?)`),
		record.Filename, record.Shorthand, record.Content,
	); err != nil {
		return unavailable("insert config", err)
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

func (s *SQLStore) RemoveConfig(ctx context.Context, shorthand string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		s.dialect.rebind(`DELETE FROM configs WHERE shorthand = ?`), shorthand,
	)
	if err != nil {
		return 0, unavailable("delete config", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, unavailable("delete config", err)
	}
	return deleted, nil
}

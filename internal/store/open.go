package store

import (
	"context"
	"fmt"
	"strings"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
)

// Open connects to the database named by databaseURL, choosing the backend from its scheme:
//
//	postgres://, postgresql://   PostgreSQL
//	mysql://                     MySQL or MariaDB
//	mongodb://, mongodb+srv://   MongoDB
//	sqlite://path or a bare path SQLite
//
// The schema is created on first use.
func Open(ctx context.Context, databaseURL string) (Backend, error) {
	switch {
	case databaseURL == "":
		return nil, fmt.Errorf("%w: empty database url", nerrors.ErrUnsupportedDatabase)
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return openPostgres(ctx, databaseURL)
	case strings.HasPrefix(databaseURL, "mysql://"):
		return openMySQL(ctx, databaseURL)
	case strings.HasPrefix(databaseURL, "mongodb://"), strings.HasPrefix(databaseURL, "mongodb+srv://"):
		return openMongo(ctx, databaseURL)
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return OpenSQLite(ctx, strings.TrimPrefix(databaseURL, "sqlite://"))
	case !strings.Contains(databaseURL, "://"):
		return OpenSQLite(ctx, databaseURL)
	default:
		return nil, fmt.Errorf("%w: %s", nerrors.ErrUnsupportedDatabase, schemeOf(databaseURL))
	}
}

func schemeOf(databaseURL string) string {
	scheme, _, _ := strings.Cut(databaseURL, "://")
	return scheme
}

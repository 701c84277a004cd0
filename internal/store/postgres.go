package store

import (
	"context"

	_ "github.com/lib/pq"
)

// openPostgres connects using a postgres:// URL, which lib/pq accepts as a DSN.
func openPostgres(ctx context.Context, databaseURL string) (*SQLStore, error) {
	return openSQL(ctx, postgresDialect, databaseURL)
}

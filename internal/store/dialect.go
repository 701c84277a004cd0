package store

import (
	"strconv"
	"strings"
)

// dialect captures the SQL differences between the supported databases.
type dialect struct {
	driverName   string
	numbered     bool // $1, $2 placeholders instead of ?
	migrations   []string
	upsertSecret string
}

var postgresDialect = dialect{
	driverName: "postgres",
	numbered:   true,
	migrations: []string{
		`CREATE TABLE IF NOT EXISTS secrets (
			project TEXT NOT NULL,
			path TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (project, path)
		)`,
		`CREATE TABLE IF NOT EXISTS configs (
			filename TEXT PRIMARY KEY,
			shorthand TEXT NOT NULL UNIQUE,
			content TEXT NOT NULL
		)`,
	},
	upsertSecret: `INSERT INTO secrets (project, path, content) VALUES (?, ?, ?)
		ON CONFLICT (project, path) DO UPDATE SET content = EXCLUDED.content`,
}

var sqliteDialect = dialect{
	driverName: "sqlite",
	migrations: []string{
		`CREATE TABLE IF NOT EXISTS secrets (
			project TEXT NOT NULL,
			path TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (project, path)
		)`,
		`CREATE TABLE IF NOT EXISTS configs (
			filename TEXT PRIMARY KEY,
			shorthand TEXT NOT NULL UNIQUE,
			content TEXT NOT NULL
		)`,
	},
	upsertSecret: `INSERT INTO secrets (project, path, content) VALUES (?, ?, ?)
		ON CONFLICT (project, path) DO UPDATE SET content = excluded.content`,
}

// MySQL cannot index unbounded TEXT, so key columns are VARCHAR sized to fit
// the 3072 byte index limit under utf8mb4.
var mysqlDialect = dialect{
	driverName: "mysql",
	migrations: []string{
		`CREATE TABLE IF NOT EXISTS secrets (
			project VARCHAR(191) NOT NULL,
			path VARCHAR(512) NOT NULL,
			content LONGTEXT NOT NULL,
			PRIMARY KEY (project, path)
		) DEFAULT CHARSET = utf8mb4`,
		`CREATE TABLE IF NOT EXISTS configs (
			filename VARCHAR(512) NOT NULL PRIMARY KEY,
			shorthand VARCHAR(191) NOT NULL UNIQUE,
			content LONGTEXT NOT NULL
		) DEFAULT CHARSET = utf8mb4`,
	},
	upsertSecret: `INSERT INTO secrets (project, path, content) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE content = VALUES(content)`,
}

// rebind rewrites ? placeholders for dialects that number them.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

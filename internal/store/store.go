package store

import (
	"context"
	"fmt"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
)

// SecretRecord is one stored secret file. Content is ciphertext.
type SecretRecord struct {
	Project string `bson:"project"`
	Path    string `bson:"path"`
	Content string `bson:"content"`
}

// ConfigRecord is one reusable config snippet. Content is plain text.
type ConfigRecord struct {
	Filename  string `bson:"filename"`
	Shorthand string `bson:"shorthand"`
	Content   string `bson:"content"`
}

// SecretStore reads and writes secret records keyed by (project, path).
type SecretStore interface {
	// GetAll returns every record for project. Order is not significant.
	GetAll(ctx context.Context, project string) ([]SecretRecord, error)

	// GetOne returns the record for (project, path), or nil if there is none.
	GetOne(ctx context.Context, project, path string) (*SecretRecord, error)

	// Upsert inserts record, or replaces the content of the existing record with the same key.
	Upsert(ctx context.Context, record SecretRecord) error

	// Delete removes the record for (project, path) and returns how many rows were removed.
	Delete(ctx context.Context, project, path string) (int64, error)
}

// ConfigStore reads and writes config snippets.
type ConfigStore interface {
	ListConfigs(ctx context.Context) ([]ConfigRecord, error)

	// GetConfigByShorthand returns the snippet for shorthand, or nil if there is none.
	GetConfigByShorthand(ctx context.Context, shorthand string) (*ConfigRecord, error)

	// AddConfig stores a new snippet. Returns ErrShorthandExists or ErrFilenameExists on conflicts.
	AddConfig(ctx context.Context, record ConfigRecord) error

	// RemoveConfig deletes the snippet for shorthand and returns how many were removed.
	RemoveConfig(ctx context.Context, shorthand string) (int64, error)
}

// Backend is a connected store serving both secrets and config snippets.
type Backend interface {
	SecretStore
	ConfigStore
	Close() error
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", nerrors.ErrStoreUnavailable, op, err)
}

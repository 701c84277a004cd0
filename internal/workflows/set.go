package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/nova/internal/audit"
	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/location"
	"github.com/PolarWolf314/nova/internal/store"
)

// SetOptions configures the set workflow.
type SetOptions struct {
	// LocalFile is the file to store, relative to the working directory.
	LocalFile string
}

// SetResult contains the outcome of a set operation.
type SetResult struct {
	Project string

	// Path is the project-relative path the secret was stored under.
	Path string
}

// Set encrypts a local file and stores it under its project-relative path,
// replacing any secret already stored there.
//
// Returns ErrEmptyPath if no file was given, ErrPathOutsideProject if the file
// is outside the project, ErrFilesystem if it cannot be read, and
// ErrAuthenticationFailure if the password is wrong.
func Set(ctx context.Context, v *Vault, auth Authorization, opts SetOptions) (*SetResult, error) {
	rel := strings.ReplaceAll(strings.TrimSpace(opts.LocalFile), "\\", "/")
	if rel == "" {
		return nil, nerrors.ErrEmptyPath
	}

	storedPath, err := location.JoinPath(auth.Folder, rel)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filepath.Join(auth.WorkDir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read file %s: %v", nerrors.ErrFilesystem, rel, err)
	}

	password, err := v.unlock()
	if err != nil {
		return nil, err
	}

	ciphertext, err := v.Engine.Encrypt(content, password)
	if err != nil {
		return nil, fmt.Errorf("encrypting %s: %w", storedPath, err)
	}

	if err := v.Secrets.Upsert(ctx, store.SecretRecord{
		Project: auth.Project,
		Path:    storedPath,
		Content: ciphertext,
	}); err != nil {
		return nil, err
	}

	entry := audit.NewEntry(audit.OpSet, auth.Project)
	entry.Paths = []string{storedPath}
	v.record(entry)

	return &SetResult{Project: auth.Project, Path: storedPath}, nil
}

package workflows

import (
	"context"
	"strings"

	"github.com/PolarWolf314/nova/internal/audit"
	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/location"
)

// RemoveOptions configures the remove workflow.
type RemoveOptions struct {
	// Path is relative to the working directory, like the argument given to set.
	Path string
}

// RemoveResult contains the outcome of a remove operation.
type RemoveResult struct {
	Project string
	Path    string
}

// Remove deletes the secret stored under the given path. No password is needed.
//
// Returns ErrEmptyPath if no path was given and ErrSecretNotFound if nothing
// is stored under it.
func Remove(ctx context.Context, v *Vault, auth Authorization, opts RemoveOptions) (*RemoveResult, error) {
	rel := strings.ReplaceAll(opts.Path, "\\", "/")
	if rel == "" {
		return nil, nerrors.ErrEmptyPath
	}

	storedPath, err := location.JoinPath(auth.Folder, rel)
	if err != nil {
		return nil, err
	}

	deleted, err := v.Secrets.Delete(ctx, auth.Project, storedPath)
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		return nil, nerrors.ErrSecretNotFound
	}

	entry := audit.NewEntry(audit.OpRemove, auth.Project)
	entry.Paths = []string{storedPath}
	v.record(entry)

	return &RemoveResult{Project: auth.Project, Path: storedPath}, nil
}

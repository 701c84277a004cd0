package workflows

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/PolarWolf314/nova/internal/audit"
	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/secrets"
	"github.com/PolarWolf314/nova/internal/store"
	"github.com/PolarWolf314/nova/internal/utils"
)

// ItemResult is the outcome for one secret in a batch operation.
type ItemResult struct {
	// Path is the project-relative path of the secret.
	Path string

	// LocalPath is the file on disk the secret was written to or compared with.
	LocalPath string

	Err error
}

// Target is the file shown for this item: LocalPath, or Path when the
// stored path was rejected before a local path was resolved.
func (r ItemResult) Target() string {
	if r.LocalPath == "" {
		return r.Path
	}
	return r.LocalPath
}

// CloneResult contains the outcome of a clone operation.
type CloneResult struct {
	Project string
	Items   []ItemResult
}

// Written returns the paths that were written successfully.
func (r *CloneResult) Written() []string {
	var paths []string
	for _, item := range r.Items {
		if item.Err == nil {
			paths = append(paths, item.Path)
		}
	}
	return paths
}

// Err joins the per-item errors, or returns nil if every secret was written.
func (r *CloneResult) Err() error {
	return itemErrors(r.Items)
}

// Clone writes every secret of the project to <ProjectsDir>/<project>/<path>.
//
// Each record is handled independently: a record that fails to decrypt or
// write is reported in its ItemResult and the rest still proceed. Files are
// written with mode 0600.
//
// Returns ErrAuthenticationFailure if the password is wrong, before anything is written.
func Clone(ctx context.Context, v *Vault, auth Authorization) (*CloneResult, error) {
	password, err := v.unlock()
	if err != nil {
		return nil, err
	}

	records, err := v.Secrets.GetAll(ctx, auth.Project)
	if err != nil {
		return nil, err
	}
	sortRecords(records)

	result := &CloneResult{
		Project: auth.Project,
		Items:   make([]ItemResult, 0, len(records)),
	}
	for _, record := range records {
		item := ItemResult{Path: record.Path}
		item.LocalPath, item.Err = v.localPath(record.Project, record.Path)
		if item.Err == nil {
			item.Err = v.cloneOne(record, item.LocalPath, password)
		}
		result.Items = append(result.Items, item)
	}

	if written := result.Written(); len(written) > 0 {
		entry := audit.NewEntry(audit.OpClone, auth.Project)
		entry.Paths = written
		v.record(entry)
	}

	return result, nil
}

func (v *Vault) cloneOne(record store.SecretRecord, localPath, password string) error {
	plaintext, err := v.Engine.Decrypt(record.Content, password)
	if err != nil {
		return err
	}
	defer secrets.Wipe(plaintext)

	if err := utils.WriteFileWithParents(localPath, plaintext, 0600); err != nil {
		return fmt.Errorf("%w: %v", nerrors.ErrFilesystem, err)
	}
	return nil
}

func sortRecords(records []store.SecretRecord) {
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
}

func itemErrors(items []ItemResult) error {
	errs := make([]error, 0, len(items))
	for _, item := range items {
		if item.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", item.Path, item.Err))
		}
	}
	return errors.Join(errs...)
}

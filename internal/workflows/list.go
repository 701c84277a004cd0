package workflows

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/PolarWolf314/nova/internal/secrets"
)

// ListOptions configures the list workflow.
type ListOptions struct {
	// Raw reports stored ciphertext lengths without asking for the password.
	Raw bool
}

// ListEntry describes one stored secret without revealing its content.
type ListEntry struct {
	Path string

	// Size is the plaintext length, or the ciphertext length in raw mode.
	Size int

	// Err is set when the record could not be decrypted.
	Err error
}

// ListResult contains the outcome of a list operation.
type ListResult struct {
	Project string
	Entries []ListEntry
	Raw     bool
}

// Err joins the per-entry errors, or returns nil if every entry was read.
func (r *ListResult) Err() error {
	errs := make([]error, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Path, e.Err))
		}
	}
	return errors.Join(errs...)
}

// List reports every secret stored for the project, sorted by path.
//
// Unless opts.Raw is set the password is validated first and each record is
// decrypted to report its plaintext length. Decrypted content is discarded.
//
// Returns ErrAuthenticationFailure if the password is wrong.
func List(ctx context.Context, v *Vault, auth Authorization, opts ListOptions) (*ListResult, error) {
	var password string
	if !opts.Raw {
		var err error
		if password, err = v.unlock(); err != nil {
			return nil, err
		}
	}

	records, err := v.Secrets.GetAll(ctx, auth.Project)
	if err != nil {
		return nil, err
	}

	result := &ListResult{
		Project: auth.Project,
		Entries: make([]ListEntry, 0, len(records)),
		Raw:     opts.Raw,
	}
	for _, record := range records {
		entry := ListEntry{Path: record.Path}
		if opts.Raw {
			entry.Size = len(record.Content)
		} else if plaintext, err := v.Engine.Decrypt(record.Content, password); err != nil {
			entry.Err = err
		} else {
			entry.Size = len(plaintext)
			secrets.Wipe(plaintext)
		}
		result.Entries = append(result.Entries, entry)
	}

	sort.Slice(result.Entries, func(i, j int) bool {
		return result.Entries[i].Path < result.Entries[j].Path
	})

	return result, nil
}

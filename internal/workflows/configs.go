package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/location"
	"github.com/PolarWolf314/nova/internal/store"
	"github.com/PolarWolf314/nova/internal/utils"
)

// ConfigEntry describes one stored config snippet.
type ConfigEntry struct {
	Shorthand string
	Filename  string
	Size      int
}

// ConfigsList returns every stored snippet ordered by shorthand.
func ConfigsList(ctx context.Context, v *Vault) ([]ConfigEntry, error) {
	records, err := v.Configs.ListConfigs(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]ConfigEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, ConfigEntry{Shorthand: r.Shorthand, Filename: r.Filename, Size: len(r.Content)})
	}
	return entries, nil
}

// ConfigCloneItem is the outcome for one requested shorthand.
type ConfigCloneItem struct {
	Shorthand string
	Filename  string
	LocalPath string
	Err       error
}

// ConfigsCloneResult contains the outcome of a configs clone operation.
type ConfigsCloneResult struct {
	Items []ConfigCloneItem
}

// Err joins the per-shorthand errors.
func (r *ConfigsCloneResult) Err() error {
	var errs []error
	for _, item := range r.Items {
		if item.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", item.Shorthand, item.Err))
		}
	}
	return errors.Join(errs...)
}

// ConfigsClone writes the snippet for each shorthand to <workDir>/<filename>.
// Unknown shorthands are reported per item and do not stop the others.
//
// Returns ErrNoShorthands if shorthands is empty.
func ConfigsClone(ctx context.Context, v *Vault, workDir string, shorthands []string) (*ConfigsCloneResult, error) {
	if len(shorthands) == 0 {
		return nil, nerrors.ErrNoShorthands
	}

	result := &ConfigsCloneResult{Items: make([]ConfigCloneItem, 0, len(shorthands))}
	for _, shorthand := range shorthands {
		item := ConfigCloneItem{Shorthand: shorthand}
		item.Filename, item.LocalPath, item.Err = v.cloneConfig(ctx, workDir, shorthand)
		result.Items = append(result.Items, item)
	}
	return result, nil
}

func (v *Vault) cloneConfig(ctx context.Context, workDir, shorthand string) (string, string, error) {
	record, err := v.Configs.GetConfigByShorthand(ctx, shorthand)
	if err != nil {
		return "", "", err
	}
	if record == nil {
		return "", "", nerrors.ErrConfigNotFound
	}

	filename, err := location.JoinPath(nil, record.Filename)
	if err != nil {
		return record.Filename, "", fmt.Errorf("stored filename %q: %w", record.Filename, err)
	}
	localPath := filepath.Join(workDir, filepath.FromSlash(filename))
	if err := utils.WriteFileWithParents(localPath, []byte(record.Content), 0644); err != nil {
		return record.Filename, localPath, fmt.Errorf("%w: %v", nerrors.ErrFilesystem, err)
	}
	return record.Filename, localPath, nil
}

// ConfigsAddOptions configures the configs add workflow.
type ConfigsAddOptions struct {
	Shorthand string
	Filename  string

	// WorkDir is where Filename is read from.
	WorkDir string
}

// ConfigsAddResult contains the outcome of a configs add operation.
type ConfigsAddResult struct {
	Shorthand string
	Filename  string
	Size      int

	// Unreadable is set when the file could not be read and an empty snippet was stored.
	Unreadable bool
}

// ConfigsAdd stores a new snippet. Its content is read from Filename when
// that file is readable; otherwise the snippet is stored empty.
//
// Returns ErrInvalidShorthand, ErrShorthandExists or ErrFilenameExists.
func ConfigsAdd(ctx context.Context, v *Vault, opts ConfigsAddOptions) (*ConfigsAddResult, error) {
	if !utils.IsValidShorthand(opts.Shorthand) {
		return nil, fmt.Errorf("%w: %q", nerrors.ErrInvalidShorthand, opts.Shorthand)
	}
	filename, err := location.JoinPath(nil, opts.Filename)
	if err != nil {
		return nil, err
	}

	result := &ConfigsAddResult{Shorthand: opts.Shorthand, Filename: filename}

	content, err := os.ReadFile(filepath.Join(opts.WorkDir, filepath.FromSlash(filename)))
	if err != nil {
		content = nil
		result.Unreadable = true
	}
	result.Size = len(content)

	if err := v.Configs.AddConfig(ctx, store.ConfigRecord{
		Filename:  filename,
		Shorthand: opts.Shorthand,
		Content:   string(content),
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ConfigsRemove deletes the snippet for shorthand.
//
// Returns ErrConfigNotFound if no snippet has that shorthand.
func ConfigsRemove(ctx context.Context, v *Vault, shorthand string) error {
	deleted, err := v.Configs.RemoveConfig(ctx, shorthand)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %q", nerrors.ErrConfigNotFound, shorthand)
	}
	return nil
}

package workflows

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/PolarWolf314/nova/internal/audit"
	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/location"
	"github.com/PolarWolf314/nova/internal/store"
)

// OpImport is the audit operation recorded by Import.
const OpImport = "import"

// maxArchiveEntry bounds a single archive entry so a corrupt archive cannot exhaust memory.
const maxArchiveEntry = 16 << 20

// ImportMode represents the import strategy.
type ImportMode int

const (
	// ImportModeMerge adds secrets from the archive and keeps existing ones.
	ImportModeMerge ImportMode = iota
	// ImportModeReplace makes the project's secrets exactly those in the archive.
	ImportModeReplace
)

// ImportOptions configures the import workflow.
type ImportOptions struct {
	// ArchivePath is the path to the tar.gz archive.
	ArchivePath string

	// Mode is the import strategy (merge or replace).
	Mode ImportMode

	// DryRun previews the import without making changes.
	DryRun bool
}

// ImportResult contains the outcome of an import operation.
type ImportResult struct {
	// SourceProject is the project the archive was exported from.
	SourceProject string

	// Added is the paths stored that did not exist before.
	Added []string

	// Skipped is the paths left alone because they already exist (merge mode).
	Skipped []string

	// Replaced is the existing paths overwritten from the archive (replace mode).
	Replaced []string

	// Removed is the paths deleted because the archive lacks them (replace mode).
	Removed []string

	DryRun bool
	Mode   ImportMode
}

// Import restores secrets from an archive written by Export into the current project.
// Stored ciphertext is copied as is, so the archive must come from the same vault password.
//
// Returns ErrFilesystem if the archive cannot be read and ErrInvalidArchive if it is malformed.
func Import(ctx context.Context, v *Vault, auth Authorization, opts ImportOptions) (*ImportResult, error) {
	manifest, records, err := readArchive(opts.ArchivePath)
	if err != nil {
		return nil, err
	}

	existing, err := v.Secrets.GetAll(ctx, auth.Project)
	if err != nil {
		return nil, err
	}
	stored := make(map[string]bool, len(existing))
	for _, r := range existing {
		stored[r.Path] = true
	}

	result := &ImportResult{
		SourceProject: manifest.Project,
		DryRun:        opts.DryRun,
		Mode:          opts.Mode,
	}

	inArchive := make(map[string]bool, len(records))
	for _, record := range records {
		inArchive[record.Path] = true

		switch {
		case !stored[record.Path]:
			result.Added = append(result.Added, record.Path)
		case opts.Mode == ImportModeMerge:
			result.Skipped = append(result.Skipped, record.Path)
			continue
		default:
			result.Replaced = append(result.Replaced, record.Path)
		}

		if opts.DryRun {
			continue
		}
		record.Project = auth.Project
		if err := v.Secrets.Upsert(ctx, record); err != nil {
			return nil, err
		}
	}

	if opts.Mode == ImportModeReplace {
		for _, r := range existing {
			if inArchive[r.Path] {
				continue
			}
			result.Removed = append(result.Removed, r.Path)
			if opts.DryRun {
				continue
			}
			if _, err := v.Secrets.Delete(ctx, auth.Project, r.Path); err != nil {
				return nil, err
			}
		}
	}

	if !opts.DryRun {
		entry := audit.NewEntry(OpImport, auth.Project)
		entry.Paths = append(append([]string{}, result.Added...), result.Replaced...)
		v.record(entry)
	}

	return result, nil
}

// readArchive reads the manifest and secret records from an export archive.
func readArchive(archivePath string) (*ArchiveManifest, []store.SecretRecord, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", nerrors.ErrFilesystem, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: not a valid gzip archive", nerrors.ErrInvalidArchive)
	}
	defer gzReader.Close()

	var manifest *ArchiveManifest
	var records []store.SecretRecord

	tr := tar.NewReader(gzReader)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", nerrors.ErrInvalidArchive, err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		data, err := io.ReadAll(io.LimitReader(tr, maxArchiveEntry+1))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: reading %s: %v", nerrors.ErrInvalidArchive, header.Name, err)
		}
		if len(data) > maxArchiveEntry {
			return nil, nil, fmt.Errorf("%w: %s is too large", nerrors.ErrInvalidArchive, header.Name)
		}

		switch {
		case header.Name == manifestName:
			manifest = &ArchiveManifest{}
			if _, err := toml.Decode(string(data), manifest); err != nil {
				return nil, nil, fmt.Errorf("%w: manifest: %v", nerrors.ErrInvalidArchive, err)
			}
		case strings.HasPrefix(header.Name, secretsPrefix):
			path, err := location.JoinPath(nil, strings.TrimPrefix(header.Name, secretsPrefix))
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %s: %v", nerrors.ErrInvalidArchive, header.Name, err)
			}
			records = append(records, store.SecretRecord{Path: path, Content: string(data)})
		}
	}

	if manifest == nil {
		return nil, nil, fmt.Errorf("%w: missing %s", nerrors.ErrInvalidArchive, manifestName)
	}
	if manifest.Secrets != len(records) {
		return nil, nil, fmt.Errorf("%w: manifest lists %d secrets, archive holds %d", nerrors.ErrInvalidArchive, manifest.Secrets, len(records))
	}
	return manifest, records, nil
}

package workflows

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/store"
)

const (
	manifestName  = "manifest.toml"
	secretsPrefix = "secrets/"
)

// ArchiveManifest describes an export archive.
type ArchiveManifest struct {
	Project    string    `toml:"project"`
	ExportedAt time.Time `toml:"exported_at"`
	Secrets    int       `toml:"secrets"`
}

// ExportOptions configures the export workflow.
type ExportOptions struct {
	// OutputPath is the path for the output archive.
	// If empty, defaults to nova-<project>-YYYY-MM-DD.tar.gz.
	OutputPath string
}

// ExportResult contains the outcome of an export operation.
type ExportResult struct {
	Project     string
	SecretCount int
	OutputPath  string
}

// Export writes every stored secret of the project to a tar.gz archive for backup.
//
// The archive holds a manifest.toml and one secrets/<path> entry per record
// containing the stored ciphertext. Nothing is decrypted, so no password is needed.
//
// Returns ErrSecretNotFound if the project has no secrets.
func Export(ctx context.Context, v *Vault, auth Authorization, opts ExportOptions) (*ExportResult, error) {
	records, err := v.Secrets.GetAll(ctx, auth.Project)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: project %s has no secrets", nerrors.ErrSecretNotFound, auth.Project)
	}
	sortRecords(records)

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = fmt.Sprintf("nova-%s-%s.tar.gz", auth.Project, time.Now().Format("2006-01-02"))
	}

	manifest := ArchiveManifest{
		Project:    auth.Project,
		ExportedAt: time.Now().UTC().Truncate(time.Second),
		Secrets:    len(records),
	}
	if err := createArchive(outputPath, manifest, records); err != nil {
		return nil, fmt.Errorf("%w: creating archive: %v", nerrors.ErrFilesystem, err)
	}

	return &ExportResult{
		Project:     auth.Project,
		SecretCount: len(records),
		OutputPath:  outputPath,
	}, nil
}

// createArchive writes manifest and records as a gzip-compressed tar archive.
func createArchive(outputPath string, manifest ArchiveManifest, records []store.SecretRecord) error {
	outFile, err := os.OpenFile(outputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer outFile.Close()

	gzWriter := gzip.NewWriter(outFile)
	tarWriter := tar.NewWriter(gzWriter)

	var manifestBuf bytes.Buffer
	if err := toml.NewEncoder(&manifestBuf).Encode(manifest); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := addEntryToTar(tarWriter, manifestName, manifestBuf.Bytes(), manifest.ExportedAt); err != nil {
		return err
	}

	for _, record := range records {
		if err := addEntryToTar(tarWriter, secretsPrefix+record.Path, []byte(record.Content), manifest.ExportedAt); err != nil {
			return err
		}
	}

	if err := tarWriter.Close(); err != nil {
		return fmt.Errorf("closing tar: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("closing gzip: %w", err)
	}
	return outFile.Close()
}

// addEntryToTar adds one in-memory file to the tar archive.
func addEntryToTar(tw *tar.Writer, name string, data []byte, modTime time.Time) error {
	header := &tar.Header{
		Name:    name,
		Mode:    0600,
		Size:    int64(len(data)),
		ModTime: modTime,
	}
	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("writing tar header for %s: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

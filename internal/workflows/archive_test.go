package workflows

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/store"
)

func TestExportImportMerge(t *testing.T) {
	env := newTestEnv(t, testPassword)
	ctx := context.Background()
	auth := env.auth(t, "acme", nil)

	for _, r := range []store.SecretRecord{
		{Project: "acme", Path: ".env", Content: "c1"},
		{Project: "acme", Path: "api/.env", Content: "c2"},
	} {
		if err := env.store.Upsert(ctx, r); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	archivePath := filepath.Join(t.TempDir(), "backup.tar.gz")
	exported, err := Export(ctx, env.vault, auth, ExportOptions{OutputPath: archivePath})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if exported.SecretCount != 2 {
		t.Errorf("expected 2 exported secrets, got %d", exported.SecretCount)
	}

	target := env.auth(t, "restored", nil)
	if err := env.store.Upsert(ctx, store.SecretRecord{Project: "restored", Path: ".env", Content: "keep"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	imported, err := Import(ctx, env.vault, target, ImportOptions{ArchivePath: archivePath, Mode: ImportModeMerge})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported.SourceProject != "acme" {
		t.Errorf("expected source project acme, got %q", imported.SourceProject)
	}
	if len(imported.Added) != 1 || imported.Added[0] != "api/.env" {
		t.Errorf("unexpected added %v", imported.Added)
	}
	if len(imported.Skipped) != 1 || imported.Skipped[0] != ".env" {
		t.Errorf("unexpected skipped %v", imported.Skipped)
	}

	kept, err := env.store.GetOne(ctx, "restored", ".env")
	if err != nil || kept == nil || kept.Content != "keep" {
		t.Errorf("merge must keep existing records, got %+v, %v", kept, err)
	}
	added, err := env.store.GetOne(ctx, "restored", "api/.env")
	if err != nil || added == nil || added.Content != "c2" {
		t.Errorf("expected imported record, got %+v, %v", added, err)
	}
}

func TestImportReplaceAndDryRun(t *testing.T) {
	env := newTestEnv(t, testPassword)
	ctx := context.Background()
	auth := env.auth(t, "acme", nil)

	if err := env.store.Upsert(ctx, store.SecretRecord{Project: "acme", Path: ".env", Content: "archived"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	archivePath := filepath.Join(t.TempDir(), "backup.tar.gz")
	if _, err := Export(ctx, env.vault, auth, ExportOptions{OutputPath: archivePath}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if err := env.store.Upsert(ctx, store.SecretRecord{Project: "acme", Path: ".env", Content: "newer"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := env.store.Upsert(ctx, store.SecretRecord{Project: "acme", Path: "extra", Content: "x"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	preview, err := Import(ctx, env.vault, auth, ImportOptions{ArchivePath: archivePath, Mode: ImportModeReplace, DryRun: true})
	if err != nil {
		t.Fatalf("dry-run Import failed: %v", err)
	}
	if len(preview.Replaced) != 1 || len(preview.Removed) != 1 {
		t.Errorf("unexpected preview %+v", preview)
	}
	if r, _ := env.store.GetOne(ctx, "acme", "extra"); r == nil {
		t.Error("dry run must not delete records")
	}

	if _, err := Import(ctx, env.vault, auth, ImportOptions{ArchivePath: archivePath, Mode: ImportModeReplace}); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	records, err := env.store.GetAll(ctx, "acme")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(records) != 1 || records[0].Content != "archived" {
		t.Errorf("expected only the archived record, got %+v", records)
	}
}

func TestExportEmptyProject(t *testing.T) {
	env := newTestEnv(t, testPassword)

	_, err := Export(context.Background(), env.vault, env.auth(t, "acme", nil), ExportOptions{OutputPath: filepath.Join(t.TempDir(), "x.tar.gz")})
	if !errors.Is(err, nerrors.ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound, got %v", err)
	}
}

func TestImportInvalidArchive(t *testing.T) {
	env := newTestEnv(t, testPassword)
	auth := env.auth(t, "acme", nil)

	bogus := filepath.Join(t.TempDir(), "bogus.tar.gz")
	if err := os.WriteFile(bogus, []byte("not gzip"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := Import(context.Background(), env.vault, auth, ImportOptions{ArchivePath: bogus}); !errors.Is(err, nerrors.ErrInvalidArchive) {
		t.Errorf("expected ErrInvalidArchive, got %v", err)
	}
	if _, err := Import(context.Background(), env.vault, auth, ImportOptions{ArchivePath: bogus + ".missing"}); !errors.Is(err, nerrors.ErrFilesystem) {
		t.Errorf("expected ErrFilesystem, got %v", err)
	}
}

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "nova.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetAllEmptyProject(t *testing.T) {
	s := openTestStore(t)

	records, err := s.GetAll(context.Background(), "acme")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", records)
	}
}

func TestUpsertIsIdempotentPerKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, content := range []string{"first", "second"} {
		if err := s.Upsert(ctx, SecretRecord{Project: "acme", Path: "local/.env", Content: content}); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	records, err := s.GetAll(ctx, "acme")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Content != "second" {
		t.Errorf("expected content to be replaced, got %q", records[0].Content)
	}
}

func TestProjectsAreIsolated(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, SecretRecord{Project: "acme", Path: ".env", Content: "a"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := s.Upsert(ctx, SecretRecord{Project: "other", Path: ".env", Content: "b"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	r, err := s.GetOne(ctx, "other", ".env")
	if err != nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	if r == nil || r.Content != "b" {
		t.Errorf("expected record for other project, got %#v", r)
	}
}

func TestGetOneMissing(t *testing.T) {
	s := openTestStore(t)

	r, err := s.GetOne(context.Background(), "acme", "missing")
	if err != nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	if r != nil {
		t.Errorf("expected nil record, got %#v", r)
	}
}

func TestDeleteReportsAffectedRows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, SecretRecord{Project: "acme", Path: ".env", Content: "x"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	deleted, err := s.Delete(ctx, "acme", ".env")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted row, got %d", deleted)
	}

	deleted, err = s.Delete(ctx, "acme", ".env")
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 deleted rows, got %d", deleted)
	}
}

func TestConfigLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.AddConfig(ctx, ConfigRecord{Filename: ".prettierrc", Shorthand: "prettier", Content: "{}"}); err != nil {
		t.Fatalf("AddConfig failed: %v", err)
	}
	if err := s.AddConfig(ctx, ConfigRecord{Filename: ".editorconfig", Shorthand: "editor", Content: "root = true"}); err != nil {
		t.Fatalf("AddConfig failed: %v", err)
	}

	records, err := s.ListConfigs(ctx)
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}
	if len(records) != 2 || records[0].Shorthand != "editor" || records[1].Shorthand != "prettier" {
		t.Errorf("unexpected configs: %#v", records)
	}

	r, err := s.GetConfigByShorthand(ctx, "prettier")
	if err != nil {
		t.Fatalf("GetConfigByShorthand failed: %v", err)
	}
	if r == nil || r.Filename != ".prettierrc" {
		t.Errorf("unexpected config: %#v", r)
	}

	removed, err := s.RemoveConfig(ctx, "prettier")
	if err != nil {
		t.Fatalf("RemoveConfig failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed config, got %d", removed)
	}

	r, err = s.GetConfigByShorthand(ctx, "prettier")
	if err != nil {
		t.Fatalf("GetConfigByShorthand failed: %v", err)
	}
	if r != nil {
		t.Errorf("expected removed config to be gone, got %#v", r)
	}
}

func TestAddConfigConflicts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.AddConfig(ctx, ConfigRecord{Filename: ".prettierrc", Shorthand: "prettier"}); err != nil {
		t.Fatalf("AddConfig failed: %v", err)
	}

	err := s.AddConfig(ctx, ConfigRecord{Filename: ".other", Shorthand: "prettier"})
	if !errors.Is(err, nerrors.ErrShorthandExists) {
		t.Errorf("expected ErrShorthandExists, got %v", err)
	}

	err = s.AddConfig(ctx, ConfigRecord{Filename: ".prettierrc", Shorthand: "other"})
	if !errors.Is(err, nerrors.ErrFilenameExists) {
		t.Errorf("expected ErrFilenameExists, got %v", err)
	}

	records, err := s.ListConfigs(ctx)
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected conflicts to leave 1 config, got %d", len(records))
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "nova.db")

	s, err := Open(ctx, "sqlite://"+dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Upsert(ctx, SecretRecord{Project: "acme", Path: ".env", Content: "x"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	s.Close()

	s, err = Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	r, err := s.GetOne(ctx, "acme", ".env")
	if err != nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	if r == nil {
		t.Error("expected record to survive reopen")
	}
}

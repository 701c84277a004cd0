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

func TestConfigsAddListCloneRemove(t *testing.T) {
	env := newTestEnv(t, testPassword)
	ctx := context.Background()
	src := t.TempDir()
	writeFile(t, filepath.Join(src, ".prettierrc"), `{"semi": false}`)

	added, err := ConfigsAdd(ctx, env.vault, ConfigsAddOptions{Shorthand: "prettier", Filename: ".prettierrc", WorkDir: src})
	if err != nil {
		t.Fatalf("ConfigsAdd failed: %v", err)
	}
	if added.Unreadable || added.Size != len(`{"semi": false}`) {
		t.Errorf("unexpected add result %+v", added)
	}

	entries, err := ConfigsList(ctx, env.vault)
	if err != nil {
		t.Fatalf("ConfigsList failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Shorthand != "prettier" || entries[0].Filename != ".prettierrc" {
		t.Errorf("unexpected entries %+v", entries)
	}

	dest := t.TempDir()
	cloned, err := ConfigsClone(ctx, env.vault, dest, []string{"prettier", "unknown"})
	if err != nil {
		t.Fatalf("ConfigsClone failed: %v", err)
	}
	if cloned.Items[0].Err != nil {
		t.Errorf("expected prettier to clone, got %v", cloned.Items[0].Err)
	}
	if !errors.Is(cloned.Items[1].Err, nerrors.ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound for unknown, got %v", cloned.Items[1].Err)
	}
	if !errors.Is(cloned.Err(), nerrors.ErrConfigNotFound) {
		t.Errorf("expected joined error to include ErrConfigNotFound, got %v", cloned.Err())
	}

	data, err := os.ReadFile(filepath.Join(dest, ".prettierrc"))
	if err != nil {
		t.Fatalf("cloned config missing: %v", err)
	}
	if string(data) != `{"semi": false}` {
		t.Errorf("unexpected cloned content %q", data)
	}

	if err := ConfigsRemove(ctx, env.vault, "prettier"); err != nil {
		t.Fatalf("ConfigsRemove failed: %v", err)
	}
	if err := ConfigsRemove(ctx, env.vault, "prettier"); !errors.Is(err, nerrors.ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestConfigsAddUnreadableFileStoresEmpty(t *testing.T) {
	env := newTestEnv(t, testPassword)

	added, err := ConfigsAdd(context.Background(), env.vault, ConfigsAddOptions{
		Shorthand: "editor",
		Filename:  ".editorconfig",
		WorkDir:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("ConfigsAdd failed: %v", err)
	}
	if !added.Unreadable || added.Size != 0 {
		t.Errorf("expected empty unreadable snippet, got %+v", added)
	}
}

func TestConfigsAddErrors(t *testing.T) {
	env := newTestEnv(t, testPassword)
	ctx := context.Background()
	dir := t.TempDir()

	if _, err := ConfigsAdd(ctx, env.vault, ConfigsAddOptions{Shorthand: "", Filename: "x", WorkDir: dir}); !errors.Is(err, nerrors.ErrInvalidShorthand) {
		t.Errorf("expected ErrInvalidShorthand, got %v", err)
	}
	if _, err := ConfigsAdd(ctx, env.vault, ConfigsAddOptions{Shorthand: "x", Filename: "../x", WorkDir: dir}); !errors.Is(err, nerrors.ErrPathOutsideProject) {
		t.Errorf("expected ErrPathOutsideProject, got %v", err)
	}

	if _, err := ConfigsAdd(ctx, env.vault, ConfigsAddOptions{Shorthand: "a", Filename: "a.txt", WorkDir: dir}); err != nil {
		t.Fatalf("ConfigsAdd failed: %v", err)
	}
	if _, err := ConfigsAdd(ctx, env.vault, ConfigsAddOptions{Shorthand: "a", Filename: "b.txt", WorkDir: dir}); !errors.Is(err, nerrors.ErrShorthandExists) {
		t.Errorf("expected ErrShorthandExists, got %v", err)
	}
	if _, err := ConfigsAdd(ctx, env.vault, ConfigsAddOptions{Shorthand: "b", Filename: "a.txt", WorkDir: dir}); !errors.Is(err, nerrors.ErrFilenameExists) {
		t.Errorf("expected ErrFilenameExists, got %v", err)
	}
}

func TestConfigsCloneWithoutShorthands(t *testing.T) {
	env := newTestEnv(t, testPassword)

	if _, err := ConfigsClone(context.Background(), env.vault, t.TempDir(), nil); !errors.Is(err, nerrors.ErrNoShorthands) {
		t.Errorf("expected ErrNoShorthands, got %v", err)
	}
}

func TestConfigsCloneRejectsStoredFilenameOutsideDirectory(t *testing.T) {
	env := newTestEnv(t, testPassword)
	ctx := context.Background()
	parent := t.TempDir()
	workDir := filepath.Join(parent, "work")

	if err := env.store.AddConfig(ctx, store.ConfigRecord{Filename: "../escape.rc", Shorthand: "escape", Content: "x"}); err != nil {
		t.Fatalf("AddConfig failed: %v", err)
	}

	result, err := ConfigsClone(ctx, env.vault, workDir, []string{"escape"})
	if err != nil {
		t.Fatalf("ConfigsClone failed: %v", err)
	}
	item := result.Items[0]
	if !errors.Is(item.Err, nerrors.ErrPathOutsideProject) {
		t.Errorf("expected ErrPathOutsideProject, got %v", item.Err)
	}
	if item.Filename != "../escape.rc" || item.LocalPath != "" {
		t.Errorf("unexpected item: %+v", item)
	}
	if _, err := os.Stat(filepath.Join(parent, "escape.rc")); !os.IsNotExist(err) {
		t.Errorf("expected nothing written outside the directory, stat returned %v", err)
	}
}

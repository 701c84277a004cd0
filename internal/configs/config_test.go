package configs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/secrets"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvDatabaseURL, EnvProjectsDir, EnvNonce, EnvReferenceCiphertext, EnvScheme} {
		t.Setenv(name, "")
	}
}

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	settings, err := LoadSettings(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if settings.Vault.ProjectSegment != "Projects" {
		t.Errorf("Expected default segment %q, got %q", "Projects", settings.Vault.ProjectSegment)
	}
	if settings.Vault.Scheme != string(secrets.SchemeSealed) {
		t.Errorf("Expected default scheme %q, got %q", secrets.SchemeSealed, settings.Vault.Scheme)
	}
	if settings.Vault.ProjectsDir == "" {
		t.Error("Expected a default projects dir")
	}
}

func TestSaveAndLoadSettings(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nova", "config.toml")

	original := &Settings{
		Database: DatabaseSettings{URL: "postgres://localhost/nova"},
		Vault: VaultSettings{
			ProjectsDir:         "/srv/projects",
			ProjectSegment:      "code",
			Nonce:               "unique nonce",
			ReferenceCiphertext: "abc",
			Scheme:              "legacy",
		},
	}
	if err := SaveSettings(path, original); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	loaded, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if *loaded != *original {
		t.Errorf("Expected %+v, got %+v", *original, *loaded)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := SaveSettings(path, &Settings{
		Database: DatabaseSettings{URL: "postgres://file/nova"},
		Vault:    VaultSettings{Nonce: "from the file"},
	}); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	t.Setenv(EnvDatabaseURL, "sqlite:///tmp/nova.db")
	t.Setenv(EnvNonce, "unique nonce")
	t.Setenv(EnvReferenceCiphertext, "ref")
	t.Setenv(EnvScheme, "legacy")
	t.Setenv(EnvProjectsDir, "/work")

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if settings.Database.URL != "sqlite:///tmp/nova.db" {
		t.Errorf("DATABASE_URL not applied, got %q", settings.Database.URL)
	}
	if settings.Vault.Nonce != "unique nonce" {
		t.Errorf("AES__NONCE not applied, got %q", settings.Vault.Nonce)
	}
	if settings.Vault.ReferenceCiphertext != "ref" {
		t.Errorf("AES__ENCRYPTED_KEY not applied, got %q", settings.Vault.ReferenceCiphertext)
	}
	if settings.Vault.Scheme != "legacy" {
		t.Errorf("NOVA_SCHEME not applied, got %q", settings.Vault.Scheme)
	}
	if settings.Vault.ProjectsDir != "/work" {
		t.Errorf("PROJECTS_DIR not applied, got %q", settings.Vault.ProjectsDir)
	}
}

func TestLoadSettingsInvalidTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[database\nurl = "), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := LoadSettings(path); err == nil {
		t.Fatal("Expected error for invalid TOML, got nil")
	}
}

func TestRequireDatabaseURL(t *testing.T) {
	settings := DefaultSettings()

	if _, err := settings.RequireDatabaseURL(); !errors.Is(err, nerrors.ErrMissingSetting) {
		t.Errorf("Expected ErrMissingSetting, got %v", err)
	}

	settings.Database.URL = "postgres://localhost/nova"
	url, err := settings.RequireDatabaseURL()
	if err != nil {
		t.Fatalf("RequireDatabaseURL failed: %v", err)
	}
	if url != settings.Database.URL {
		t.Errorf("Expected %q, got %q", settings.Database.URL, url)
	}
}

func TestEngineConfigBuildsWorkingEngine(t *testing.T) {
	settings := DefaultSettings()
	settings.Vault.Nonce = "unique nonce"
	settings.Vault.Scheme = "legacy"

	engine, err := secrets.NewEngine(settings.EngineConfig())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if engine.Scheme() != secrets.SchemeLegacy {
		t.Errorf("Expected legacy scheme, got %q", engine.Scheme())
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandHome("~/Projects")
	if err != nil {
		t.Fatalf("ExpandHome failed: %v", err)
	}
	if got != filepath.Join(home, "Projects") {
		t.Errorf("Expected %q, got %q", filepath.Join(home, "Projects"), got)
	}

	got, err = ExpandHome("/abs/path")
	if err != nil {
		t.Fatalf("ExpandHome failed: %v", err)
	}
	if got != "/abs/path" {
		t.Errorf("Expected path unchanged, got %q", got)
	}
}

func TestNewPaths(t *testing.T) {
	paths := NewPaths("/cfg/nova")
	if paths.SettingsPath != filepath.Join("/cfg/nova", "config.toml") {
		t.Errorf("unexpected settings path %q", paths.SettingsPath)
	}
	if paths.AuditLogPath != filepath.Join("/cfg/nova", "audit.jsonl") {
		t.Errorf("unexpected audit path %q", paths.AuditLogPath)
	}
}

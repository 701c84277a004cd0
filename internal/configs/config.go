package configs

import (
	"fmt"
	"os"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/location"
	"github.com/PolarWolf314/nova/internal/secrets"
)

// Environment variables that override the settings file.
const (
	EnvDatabaseURL         = "DATABASE_URL"
	EnvProjectsDir         = "PROJECTS_DIR"
	EnvNonce               = "AES__NONCE"
	EnvReferenceCiphertext = "AES__ENCRYPTED_KEY"
	EnvScheme              = "NOVA_SCHEME"
)

type Settings struct {
	Database DatabaseSettings `toml:"database"`
	Vault    VaultSettings    `toml:"vault"`
}

type DatabaseSettings struct {
	URL string `toml:"url"`
}

type VaultSettings struct {
	ProjectsDir         string `toml:"projects_dir"`
	ProjectSegment      string `toml:"project_segment"`
	Nonce               string `toml:"nonce"`
	ReferenceCiphertext string `toml:"reference_ciphertext"`
	Scheme              string `toml:"scheme"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Vault: VaultSettings{
			ProjectsDir:    DefaultProjectsDir(),
			ProjectSegment: location.DefaultSegment,
			Scheme:         string(secrets.SchemeSealed),
		},
	}
}

// LoadSettings reads the settings file at path, then applies environment
// overrides. A missing file is not an error.
func LoadSettings(path string) (*Settings, error) {
	settings, err := LoadSettingsFile(path)
	if err != nil {
		return nil, err
	}

	settings.applyEnv(os.LookupEnv)
	settings.fillDefaults()

	projectsDir, err := ExpandHome(settings.Vault.ProjectsDir)
	if err != nil {
		return nil, err
	}
	settings.Vault.ProjectsDir = projectsDir

	return settings, nil
}

// LoadSettingsFile reads only the settings file, without environment
// overrides, so that it can be edited and saved back.
func LoadSettingsFile(path string) (*Settings, error) {
	settings := DefaultSettings()

	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(path, settings); err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	settings.fillDefaults()
	return settings, nil
}

// SaveSettings writes settings to path, creating parent directories.
func SaveSettings(path string, settings *Settings) error {
	if err := SaveTOML(path, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (s *Settings) applyEnv(lookup func(string) (string, bool)) {
	overrides := []struct {
		name   string
		target *string
	}{
		{EnvDatabaseURL, &s.Database.URL},
		{EnvProjectsDir, &s.Vault.ProjectsDir},
		{EnvNonce, &s.Vault.Nonce},
		{EnvReferenceCiphertext, &s.Vault.ReferenceCiphertext},
		{EnvScheme, &s.Vault.Scheme},
	}
	for _, o := range overrides {
		if v, ok := lookup(o.name); ok && v != "" {
			*o.target = v
		}
	}
}

func (s *Settings) fillDefaults() {
	defaults := DefaultSettings()
	if s.Vault.ProjectsDir == "" {
		s.Vault.ProjectsDir = defaults.Vault.ProjectsDir
	}
	if s.Vault.ProjectSegment == "" {
		s.Vault.ProjectSegment = defaults.Vault.ProjectSegment
	}
	if s.Vault.Scheme == "" {
		s.Vault.Scheme = defaults.Vault.Scheme
	}
}

// RequireDatabaseURL returns the configured database URL or ErrMissingSetting.
func (s *Settings) RequireDatabaseURL() (string, error) {
	if s.Database.URL == "" {
		return "", fmt.Errorf("%w: set %s or [database] url in the settings file", nerrors.ErrMissingSetting, EnvDatabaseURL)
	}
	return s.Database.URL, nil
}

// EngineConfig builds the cipher engine configuration from the vault settings.
func (s *Settings) EngineConfig() secrets.EngineConfig {
	return secrets.EngineConfig{
		Nonce:               []byte(s.Vault.Nonce),
		ReferenceCiphertext: s.Vault.ReferenceCiphertext,
		Scheme:              secrets.Scheme(s.Vault.Scheme),
	}
}

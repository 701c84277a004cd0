package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the per-user locations nova reads and writes.
type Paths struct {
	ConfigDir    string
	SettingsPath string
	AuditLogPath string
}

// NovaPaths is initialised at startup. Tests may point it at a temp directory.
var NovaPaths *Paths

func init() {
	configDir := os.Getenv("NOVA_CONFIG_DIR")
	if configDir == "" {
		userConfigDir, err := os.UserConfigDir()
		if err != nil {
			// No HOME or XDG_CONFIG_HOME; fall back to the working directory.
			userConfigDir = "."
		}
		configDir = filepath.Join(userConfigDir, "nova")
	}
	NovaPaths = NewPaths(configDir)
}

// NewPaths derives every per-user path from configDir.
func NewPaths(configDir string) *Paths {
	return &Paths{
		ConfigDir:    configDir,
		SettingsPath: filepath.Join(configDir, "config.toml"),
		AuditLogPath: filepath.Join(configDir, "audit.jsonl"),
	}
}

// DefaultProjectsDir is ~/Projects, the root the location resolver expects by default.
func DefaultProjectsDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "Projects"
	}
	return filepath.Join(homeDir, "Projects")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !hasHomePrefix(path) {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}

func hasHomePrefix(path string) bool {
	return len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator)
}

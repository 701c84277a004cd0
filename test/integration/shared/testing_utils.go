// Package shared contains testing utilities shared between integration tests.
// This file provides common functions for setting up an isolated nova
// environment, running the CLI and capturing its output.
package shared

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/nova/cmd"
	"github.com/PolarWolf314/nova/internal/configs"
	"github.com/spf13/cobra"
)

// TestPassword is the vault password used by InitializeVault.
const TestPassword = "correct horse battery staple"

// LegacyNonce is a valid 12 byte nonce for tests that use the legacy scheme.
const LegacyNonce = "unique nonce"

// FixedPrompter answers every password prompt with the same value.
type FixedPrompter string

func (p FixedPrompter) ReadPassword(string) (string, error) {
	return string(p), nil
}

// Env describes the temporary directories of one test.
type Env struct {
	// ConfigDir holds the settings file and the audit log.
	ConfigDir string

	// ProjectsDir is the root that contains every project.
	ProjectsDir string

	// ProjectDir is ProjectsDir/<project>, the working directory during the test.
	ProjectDir string

	// DatabasePath is the SQLite file used as the store.
	DatabasePath string
}

// SetupTestEnvironment points nova at temporary directories and a SQLite
// database, and changes into <projects>/<project>. Everything is restored when the test ends.
func SetupTestEnvironment(t *testing.T, project string) *Env {
	t.Helper()

	root := t.TempDir()
	env := &Env{
		ConfigDir:    filepath.Join(root, "config"),
		ProjectsDir:  filepath.Join(root, "Projects"),
		DatabasePath: filepath.Join(root, "vault.db"),
	}
	env.ProjectDir = filepath.Join(env.ProjectsDir, project)
	if err := os.MkdirAll(env.ProjectDir, 0755); err != nil {
		t.Fatalf("Failed to create project directory: %v", err)
	}

	t.Setenv(configs.EnvDatabaseURL, "sqlite://"+env.DatabasePath)
	t.Setenv(configs.EnvProjectsDir, env.ProjectsDir)
	// Empty values are ignored by the settings loader.
	t.Setenv(configs.EnvNonce, "")
	t.Setenv(configs.EnvReferenceCiphertext, "")
	t.Setenv(configs.EnvScheme, "")
	t.Setenv("NO_COLOR", "1")

	originalPaths := configs.NovaPaths
	configs.NovaPaths = configs.NewPaths(env.ConfigDir)

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(env.ProjectDir); err != nil {
		t.Fatalf("Failed to change to project directory: %v", err)
	}

	cmd.SetPrompter(FixedPrompter(TestPassword))

	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.NovaPaths = originalPaths
		cmd.SetPrompter(nil)
		cmd.ResetGlobalState()
		cmd.ResetConfigsState()
		cmd.ResetConfigState()
	})

	return env
}

// UseLegacyScheme switches new encryptions to the legacy scheme for the rest of the test.
func UseLegacyScheme(t *testing.T) {
	t.Helper()
	t.Setenv(configs.EnvScheme, "legacy")
	t.Setenv(configs.EnvNonce, LegacyNonce)
}

// Chdir changes into dir for the rest of the test. The original directory is
// restored by SetupTestEnvironment.
func Chdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change to %s: %v", dir, err)
	}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// ReadFile returns the content of path, failing the test if it cannot be read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// CaptureOutput captures both stdout and stderr during function execution.
func CaptureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Channel to collect output
	outputChan := make(chan string, 2)

	// Start goroutines to read from pipes
	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	// Collect output
	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// CreateTestCLI creates a complete CLI instance for testing with the given arguments.
func CreateTestCLI(args ...string) *cobra.Command {
	cmd.ResetGlobalState()
	cmd.ResetConfigsState()
	cmd.ResetConfigState()

	rootCmd := &cobra.Command{
		Use:          "nova",
		Short:        "Nova - A CLI for project secrets and reusable config snippets.",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(cmd.GetSecretsCmd())
	rootCmd.AddCommand(cmd.GetConfigsCmd())
	rootCmd.AddCommand(cmd.GetConfigCmd())
	rootCmd.SetArgs(args)

	return rootCmd
}

// RunCLI executes the CLI with args and returns everything it printed.
func RunCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return CaptureOutput(func() error {
		return CreateTestCLI(args...).Execute()
	})
}

// InitializeVault sets TestPassword as the vault password with config init.
func InitializeVault(t *testing.T) {
	t.Helper()
	output, err := RunCLI(t, "config", "init")
	if err != nil {
		t.Fatalf("Failed to initialize vault: %v\nOutput: %s", err, output)
	}
}

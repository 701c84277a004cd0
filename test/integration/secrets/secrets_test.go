package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/nova/cmd"
	"github.com/PolarWolf314/nova/internal/configs"
	"github.com/PolarWolf314/nova/test/integration/shared"
)

// failingPrompter fails the test if a password is requested.
type failingPrompter struct{ t *testing.T }

func (p failingPrompter) ReadPassword(prompt string) (string, error) {
	p.t.Errorf("Unexpected password prompt %q", prompt)
	return "", errors.New("no password expected")
}

func setupVault(t *testing.T, project string) *shared.Env {
	env := shared.SetupTestEnvironment(t, project)
	shared.InitializeVault(t)
	return env
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	output, err := shared.RunCLI(t, args...)
	if err != nil {
		t.Fatalf("nova %s failed: %v\nOutput: %s", strings.Join(args, " "), err, output)
	}
	return output
}

func TestSetThenCloneRestoresFile(t *testing.T) {
	env := setupVault(t, "api")
	envFile := filepath.Join(env.ProjectDir, ".env")
	shared.WriteFile(t, envFile, "API_KEY=123\n")

	output := mustRun(t, "secrets", "set", ".env")
	if !strings.Contains(output, "✓ Secret stored .env") {
		t.Errorf("Expected stored confirmation, got: %s", output)
	}

	if err := os.Remove(envFile); err != nil {
		t.Fatalf("Failed to remove local file: %v", err)
	}

	output = mustRun(t, "secrets", "clone")
	if !strings.Contains(output, "✓ Wrote to file "+envFile) {
		t.Errorf("Expected write confirmation for %s, got: %s", envFile, output)
	}
	if got := shared.ReadFile(t, envFile); got != "API_KEY=123\n" {
		t.Errorf("Cloned content = %q, want %q", got, "API_KEY=123\n")
	}
}

func TestSetFromSubfolderStoresProjectRelativePath(t *testing.T) {
	env := setupVault(t, "api")
	subDir := filepath.Join(env.ProjectDir, "services", "web")
	shared.Chdir(t, subDir)
	shared.WriteFile(t, filepath.Join(subDir, "config.json"), `{"token":"abc"}`)

	output := mustRun(t, "secrets", "set", "config.json")
	if !strings.Contains(output, "Secret stored services/web/config.json") {
		t.Errorf("Expected project-relative path in output, got: %s", output)
	}

	output = mustRun(t, "secrets", "list")
	if !strings.Contains(output, "services/web/config.json") {
		t.Errorf("Expected stored path in list output, got: %s", output)
	}
}

func TestCheckReportsEachStatus(t *testing.T) {
	env := setupVault(t, "api")
	shared.WriteFile(t, filepath.Join(env.ProjectDir, ".env"), "A=1\n")
	shared.WriteFile(t, filepath.Join(env.ProjectDir, "changed.env"), "B=1\n")
	shared.WriteFile(t, filepath.Join(env.ProjectDir, "missing.env"), "C=1\n")

	for _, file := range []string{".env", "changed.env", "missing.env"} {
		mustRun(t, "secrets", "set", file)
	}

	shared.WriteFile(t, filepath.Join(env.ProjectDir, "changed.env"), "B=2\n")
	if err := os.Remove(filepath.Join(env.ProjectDir, "missing.env")); err != nil {
		t.Fatalf("Failed to remove file: %v", err)
	}

	output := mustRun(t, "secrets", "check")
	for _, want := range []string{
		"✓ Identical secret " + filepath.Join(env.ProjectDir, ".env"),
		"⚠ Non-identical secret " + filepath.Join(env.ProjectDir, "changed.env"),
		"⚠ Non-existent secret " + filepath.Join(env.ProjectDir, "missing.env"),
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in check output, got: %s", want, output)
		}
	}

	// Check never writes.
	if _, err := os.Stat(filepath.Join(env.ProjectDir, "missing.env")); !os.IsNotExist(err) {
		t.Errorf("check must not recreate missing files")
	}

	mustRun(t, "secrets", "clone")
	output = mustRun(t, "secrets", "check")
	if strings.Contains(output, "Non-") {
		t.Errorf("Expected every secret identical after clone, got: %s", output)
	}
}

func TestListReportsPlaintextAndRawSizes(t *testing.T) {
	env := setupVault(t, "api")
	shared.WriteFile(t, filepath.Join(env.ProjectDir, ".env"), "API_KEY=123\n")
	mustRun(t, "secrets", "set", ".env")

	output := mustRun(t, "secrets", "list")
	if !strings.Contains(output, "Secrets for 'api'") {
		t.Errorf("Expected project header, got: %s", output)
	}
	if !strings.Contains(output, ".env  (12 bytes)") {
		t.Errorf("Expected plaintext size, got: %s", output)
	}
	if strings.Contains(output, "API_KEY") {
		t.Errorf("list must never print secret content, got: %s", output)
	}

	cmd.SetPrompter(failingPrompter{t})
	output = mustRun(t, "secrets", "list", "--raw")
	if !strings.Contains(output, "bytes stored") {
		t.Errorf("Expected stored sizes in raw mode, got: %s", output)
	}
}

func TestListEmptyProject(t *testing.T) {
	setupVault(t, "empty")

	output := mustRun(t, "secrets", "list")
	if !strings.Contains(output, "No secrets stored for project empty") {
		t.Errorf("Expected empty project warning, got: %s", output)
	}
}

func TestWrongPasswordWritesNothing(t *testing.T) {
	env := setupVault(t, "api")
	envFile := filepath.Join(env.ProjectDir, ".env")
	shared.WriteFile(t, envFile, "API_KEY=123\n")
	mustRun(t, "secrets", "set", ".env")
	if err := os.Remove(envFile); err != nil {
		t.Fatalf("Failed to remove local file: %v", err)
	}

	cmd.SetPrompter(shared.FixedPrompter("wrong password"))
	output, err := shared.RunCLI(t, "secrets", "clone")
	if err == nil {
		t.Fatalf("Expected clone with the wrong password to fail")
	}
	if !strings.Contains(output, "✗ Incorrect password") {
		t.Errorf("Expected incorrect password message, got: %s", output)
	}
	if _, err := os.Stat(envFile); !os.IsNotExist(err) {
		t.Errorf("No file should be written with the wrong password")
	}
}

func TestCloneReportsUnwritableItem(t *testing.T) {
	env := setupVault(t, "api")
	shared.WriteFile(t, filepath.Join(env.ProjectDir, ".env"), "A=1\n")
	shared.WriteFile(t, filepath.Join(env.ProjectDir, "other.env"), "B=1\n")
	mustRun(t, "secrets", "set", ".env")
	mustRun(t, "secrets", "set", "other.env")

	// A directory in place of the file makes that one write fail.
	blocked := filepath.Join(env.ProjectDir, ".env")
	if err := os.Remove(blocked); err != nil {
		t.Fatalf("Failed to remove file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(blocked, "child"), 0755); err != nil {
		t.Fatalf("Failed to create blocking directory: %v", err)
	}

	output, err := shared.RunCLI(t, "secrets", "clone")
	if err == nil {
		t.Fatalf("Expected clone to fail when an item cannot be written")
	}
	if !strings.Contains(output, "✗ Unable to write file "+blocked) {
		t.Errorf("Expected failure line for %s, got: %s", blocked, output)
	}
	if !strings.Contains(output, "✓ Wrote to file "+filepath.Join(env.ProjectDir, "other.env")) {
		t.Errorf("Other items should still be written, got: %s", output)
	}
}

func TestRemove(t *testing.T) {
	env := setupVault(t, "api")
	shared.WriteFile(t, filepath.Join(env.ProjectDir, ".env"), "A=1\n")
	mustRun(t, "secrets", "set", ".env")

	cmd.SetPrompter(failingPrompter{t})
	output := mustRun(t, "secrets", "remove", ".env")
	if !strings.Contains(output, "✓ Secret removed .env") {
		t.Errorf("Expected removal confirmation, got: %s", output)
	}

	output, err := shared.RunCLI(t, "secrets", "remove", ".env")
	if err == nil {
		t.Fatalf("Expected removing a missing secret to fail")
	}
	if !strings.Contains(output, "No secret found stored with this path") {
		t.Errorf("Expected not found message, got: %s", output)
	}

	// The local file is untouched.
	if _, err := os.Stat(filepath.Join(env.ProjectDir, ".env")); err != nil {
		t.Errorf("remove must not delete the local file: %v", err)
	}
}

func TestSetErrors(t *testing.T) {
	setupVault(t, "api")

	tests := []struct {
		name string
		arg  string
		want string
	}{
		{"missing file", "nope.env", "Unable to read file nope.env"},
		{"outside project", "../other/.env", "Path is outside the project"},
		{"absolute path", "/etc/passwd", "Path is outside the project"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := shared.RunCLI(t, "secrets", "set", tt.arg)
			if err == nil {
				t.Fatalf("Expected set %s to fail", tt.arg)
			}
			if !strings.Contains(output, tt.want) {
				t.Errorf("Expected %q, got: %s", tt.want, output)
			}
		})
	}
}

func TestOutsideProjectDirectory(t *testing.T) {
	env := setupVault(t, "api")
	shared.Chdir(t, env.ProjectsDir)

	output, err := shared.RunCLI(t, "secrets", "list")
	if err == nil {
		t.Fatalf("Expected list outside a project to fail")
	}
	if !strings.Contains(output, "Not inside a project directory") {
		t.Errorf("Expected location error, got: %s", output)
	}
}

func TestSecretsAreScopedToProject(t *testing.T) {
	env := setupVault(t, "api")
	shared.WriteFile(t, filepath.Join(env.ProjectDir, ".env"), "A=1\n")
	mustRun(t, "secrets", "set", ".env")

	shared.Chdir(t, filepath.Join(env.ProjectsDir, "web"))
	output := mustRun(t, "secrets", "list")
	if !strings.Contains(output, "No secrets stored for project web") {
		t.Errorf("Expected no secrets for another project, got: %s", output)
	}
}

func TestMissingDatabaseURL(t *testing.T) {
	setupVault(t, "api")
	t.Setenv(configs.EnvDatabaseURL, "")

	output, err := shared.RunCLI(t, "secrets", "list", "--raw")
	if err == nil {
		t.Fatalf("Expected list without a database to fail")
	}
	if !strings.Contains(output, "No database configured") {
		t.Errorf("Expected missing database message, got: %s", output)
	}
}

func TestLegacySchemeRoundTrip(t *testing.T) {
	env := shared.SetupTestEnvironment(t, "api")
	shared.UseLegacyScheme(t)
	shared.InitializeVault(t)

	envFile := filepath.Join(env.ProjectDir, ".env")
	shared.WriteFile(t, envFile, "LEGACY=1\n")
	mustRun(t, "secrets", "set", ".env")
	shared.WriteFile(t, envFile, "changed\n")

	mustRun(t, "secrets", "clone")
	if got := shared.ReadFile(t, envFile); got != "LEGACY=1\n" {
		t.Errorf("Cloned content = %q, want %q", got, "LEGACY=1\n")
	}
}

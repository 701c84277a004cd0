package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/PolarWolf314/nova/internal/configs"
	"github.com/PolarWolf314/nova/internal/location"
	"github.com/PolarWolf314/nova/internal/secrets"
	"github.com/PolarWolf314/nova/internal/store"
)

// HealthStatus represents the result status of a health check.
type HealthStatus int

const (
	// HealthPass means the check passed.
	HealthPass HealthStatus = iota
	// HealthWarning means the check found a non-critical issue.
	HealthWarning
	// HealthError means the check found a critical issue.
	HealthError
)

// String returns a string representation of HealthStatus.
func (s HealthStatus) String() string {
	switch s {
	case HealthPass:
		return "pass"
	case HealthWarning:
		return "warning"
	case HealthError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for HealthStatus.
func (s HealthStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// HealthCheck holds the result of a single health check.
type HealthCheck struct {
	Name       string       `json:"name"`
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message"`
	Suggestion string       `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks      []HealthCheck `json:"checks"`
	Summary     DoctorSummary `json:"summary"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// DoctorOptions configures the doctor workflow.
type DoctorOptions struct {
	SettingsPath string

	// WorkDir is checked against the project layout.
	WorkDir string

	// OpenStore connects to the database. Nil uses store.Open.
	OpenStore func(ctx context.Context, databaseURL string) (store.Backend, error)
}

// doctorState carries what earlier checks learned to later ones.
type doctorState struct {
	opts     DoctorOptions
	settings *configs.Settings
}

// Doctor runs health checks on the local nova setup.
//
// The doctor workflow checks:
//   - Settings file presence, syntax and permissions
//   - Cipher engine configuration (scheme and nonce)
//   - Reference ciphertext presence
//   - Database URL and connectivity
//   - Whether the working directory is inside a project
func Doctor(ctx context.Context, opts DoctorOptions) (*DoctorResult, error) {
	state := &doctorState{opts: opts}
	if state.opts.OpenStore == nil {
		state.opts.OpenStore = store.Open
	}

	checks := []func(context.Context) HealthCheck{
		state.checkSettingsFile,
		state.checkSettingsPermissions,
		state.checkEngine,
		state.checkReference,
		state.checkDatabase,
		state.checkLocation,
	}

	var results []HealthCheck
	for _, check := range checks {
		results = append(results, check(ctx))
	}

	summary := calculateDoctorSummary(results)

	// Collect suggestions (deduplicated).
	var suggestions []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.Suggestion != "" && result.Status != HealthPass && !seen[result.Suggestion] {
			suggestions = append(suggestions, result.Suggestion)
			seen[result.Suggestion] = true
		}
	}

	return &DoctorResult{
		Checks:      results,
		Summary:     summary,
		Suggestions: suggestions,
	}, nil
}

func (s *doctorState) checkSettingsFile(ctx context.Context) HealthCheck {
	const name = "Settings file"

	if _, err := os.Stat(s.opts.SettingsPath); os.IsNotExist(err) {
		settings, _ := configs.LoadSettings(s.opts.SettingsPath)
		s.settings = settings
		return HealthCheck{
			Name:       name,
			Status:     HealthWarning,
			Message:    fmt.Sprintf("%s not found, using defaults and environment", s.opts.SettingsPath),
			Suggestion: "Run 'nova config init' to create the settings file",
		}
	}

	settings, err := configs.LoadSettings(s.opts.SettingsPath)
	if err != nil {
		return HealthCheck{
			Name:       name,
			Status:     HealthError,
			Message:    fmt.Sprintf("Failed to parse settings: %v", err),
			Suggestion: fmt.Sprintf("Check %s for syntax errors", s.opts.SettingsPath),
		}
	}
	s.settings = settings

	return HealthCheck{
		Name:    name,
		Status:  HealthPass,
		Message: "Settings file valid",
	}
}

// checkSettingsPermissions warns when the settings file, which may hold database credentials, is readable by others.
func (s *doctorState) checkSettingsPermissions(ctx context.Context) HealthCheck {
	const name = "Settings permissions"

	info, err := os.Stat(s.opts.SettingsPath)
	if err != nil {
		return HealthCheck{Name: name, Status: HealthPass, Message: "No settings file to check"}
	}
	if runtime.GOOS == "windows" {
		return HealthCheck{Name: name, Status: HealthPass, Message: "Permission check skipped on Windows"}
	}

	if mode := info.Mode().Perm(); mode&0077 != 0 {
		return HealthCheck{
			Name:       name,
			Status:     HealthWarning,
			Message:    fmt.Sprintf("Settings file is accessible by other users (mode %04o)", mode),
			Suggestion: fmt.Sprintf("Run 'chmod 600 %s' to fix permissions", s.opts.SettingsPath),
		}
	}

	return HealthCheck{Name: name, Status: HealthPass, Message: "Settings file permissions are secure"}
}

func (s *doctorState) checkEngine(ctx context.Context) HealthCheck {
	const name = "Encryption scheme"

	if s.settings == nil {
		return HealthCheck{Name: name, Status: HealthError, Message: "Settings could not be loaded"}
	}

	engine, err := secrets.NewEngine(s.settings.EngineConfig())
	if err != nil {
		return HealthCheck{
			Name:       name,
			Status:     HealthError,
			Message:    fmt.Sprintf("Invalid encryption settings: %v", err),
			Suggestion: "Set [vault] scheme to \"sealed\", or provide a 12-byte nonce for \"legacy\"",
		}
	}

	if engine.Scheme() == secrets.SchemeLegacy {
		return HealthCheck{
			Name:       name,
			Status:     HealthWarning,
			Message:    "New secrets are written with the legacy fixed-nonce scheme",
			Suggestion: "Set [vault] scheme to \"sealed\" and run 'nova secrets rotate' in each project",
		}
	}

	return HealthCheck{Name: name, Status: HealthPass, Message: fmt.Sprintf("Using the %s scheme", engine.Scheme())}
}

func (s *doctorState) checkReference(ctx context.Context) HealthCheck {
	const name = "Vault password"

	if s.settings == nil || s.settings.Vault.ReferenceCiphertext == "" {
		return HealthCheck{
			Name:       name,
			Status:     HealthError,
			Message:    "No reference ciphertext configured, every password will be rejected",
			Suggestion: "Run 'nova config init' to set the vault password",
		}
	}

	return HealthCheck{Name: name, Status: HealthPass, Message: "Reference ciphertext configured"}
}

func (s *doctorState) checkDatabase(ctx context.Context) HealthCheck {
	const name = "Database"

	if s.settings == nil {
		return HealthCheck{Name: name, Status: HealthError, Message: "Settings could not be loaded"}
	}

	databaseURL, err := s.settings.RequireDatabaseURL()
	if err != nil {
		return HealthCheck{
			Name:       name,
			Status:     HealthError,
			Message:    "No database configured",
			Suggestion: fmt.Sprintf("Set %s or [database] url in the settings file", configs.EnvDatabaseURL),
		}
	}

	backend, err := s.opts.OpenStore(ctx, databaseURL)
	if err != nil {
		return HealthCheck{
			Name:       name,
			Status:     HealthError,
			Message:    fmt.Sprintf("Cannot connect: %v", err),
			Suggestion: "Check the database URL and that the server is reachable",
		}
	}
	backend.Close()

	return HealthCheck{Name: name, Status: HealthPass, Message: "Database reachable"}
}

func (s *doctorState) checkLocation(ctx context.Context) HealthCheck {
	const name = "Project location"

	segment := location.DefaultSegment
	if s.settings != nil {
		segment = s.settings.Vault.ProjectSegment
	}

	id, err := location.NewResolver(segment).Resolve(s.opts.WorkDir)
	if err != nil {
		return HealthCheck{
			Name:       name,
			Status:     HealthWarning,
			Message:    fmt.Sprintf("Working directory is not inside a %s/<project> directory", segment),
			Suggestion: fmt.Sprintf("Run secrets commands from inside %s/<project>", segment),
		}
	}

	return HealthCheck{Name: name, Status: HealthPass, Message: fmt.Sprintf("Project %q", id.Project)}
}

func calculateDoctorSummary(results []HealthCheck) DoctorSummary {
	var summary DoctorSummary
	for _, r := range results {
		switch r.Status {
		case HealthPass:
			summary.Passed++
		case HealthWarning:
			summary.Warnings++
		case HealthError:
			summary.Errors++
		}
	}
	return summary
}

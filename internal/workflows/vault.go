package workflows

import (
	"fmt"
	"path/filepath"

	"github.com/PolarWolf314/nova/internal/audit"
	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/location"
	"github.com/PolarWolf314/nova/internal/secrets"
	"github.com/PolarWolf314/nova/internal/store"
)

// PasswordPrompt is shown when a vault operation needs the password.
const PasswordPrompt = "Enter password: "

// Prompter reads a password from the user.
type Prompter interface {
	ReadPassword(prompt string) (string, error)
}

// Vault bundles the dependencies every vault operation needs.
type Vault struct {
	Secrets  store.SecretStore
	Configs  store.ConfigStore
	Engine   *secrets.Engine
	Prompter Prompter

	// ProjectsDir is the root that projects are cloned into and checked against.
	ProjectsDir string

	// Audit receives an entry after each successful mutation. Nil uses audit.Log.
	Audit func(audit.Entry)
}

// Authorization identifies the project an operation acts on.
// It is resolved once from the working directory by the command layer.
type Authorization struct {
	Project string

	// Folder is the path of WorkDir inside the project, or nil at the project root.
	Folder *string

	// WorkDir is the directory local file arguments are relative to.
	WorkDir string
}

// Authorize resolves workDir into an Authorization using resolver.
//
// Returns ErrInvalidLocation if workDir is not inside a project.
func Authorize(resolver *location.Resolver, workDir string) (Authorization, error) {
	id, err := resolver.Resolve(workDir)
	if err != nil {
		return Authorization{}, err
	}
	return Authorization{Project: id.Project, Folder: id.Folder, WorkDir: workDir}, nil
}

// unlock prompts for the password and checks it against the reference ciphertext.
func (v *Vault) unlock() (string, error) {
	password, err := v.Prompter.ReadPassword(PasswordPrompt)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	if !v.Engine.Validate(password) {
		return "", nerrors.ErrAuthenticationFailure
	}
	return password, nil
}

// localPath is where a stored secret lives on disk. Stored paths come from the
// shared store, so they are checked again before touching the filesystem.
func (v *Vault) localPath(project, stored string) (string, error) {
	rel, err := location.JoinPath(nil, stored)
	if err != nil {
		return "", fmt.Errorf("stored path %q: %w", stored, err)
	}
	return filepath.Join(v.ProjectsDir, project, filepath.FromSlash(rel)), nil
}

func (v *Vault) record(entry audit.Entry) {
	if v.Audit != nil {
		v.Audit(entry)
		return
	}
	audit.Log(entry)
}

// Package workflows provides high-level orchestration for nova commands.
//
// Workflows coordinate the store, the cipher engine and the audit log to
// implement complete user-facing features. Each workflow handles a single
// command's business logic, independent of CLI concerns like flag parsing,
// spinners, and output formatting.
//
// # Authorization
//
// Vault operations act on the project named by an Authorization, resolved
// once from the working directory by the command layer:
//
//	auth, err := workflows.Authorize(location.NewResolver("Projects"), cwd)
//
// Operations that read or write plaintext prompt for the password through
// the Vault's Prompter and validate it against the reference ciphertext
// before touching any record.
//
// # Available Workflows
//
//   - List: stored paths with plaintext (or raw ciphertext) sizes
//   - Clone: writes every secret to <ProjectsDir>/<project>/<path>
//   - Check: compares every secret with its local file
//   - Set: encrypts a local file and stores it
//   - Remove: deletes a stored secret
//   - Rotate: re-encrypts a project's secrets under the current scheme
//   - Export, Import: ciphertext backups as tar.gz archives
//   - ConfigsList, ConfigsClone, ConfigsAdd, ConfigsRemove: plain text snippets
//   - Init, Doctor, Log: setup, health checks and the audit trail
//
// The five core vault operations can also be dispatched through Run with a
// ListOp, CloneOp, CheckOp, SetOp or RemoveOp.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package. Batch
// workflows (Clone, Check, Rotate, ConfigsClone) keep going after a failed
// item; their results carry per-item errors and an Err method joining them.
//
//	result, err := workflows.Clone(ctx, vault, auth)
//	if errors.Is(err, nerrors.ErrAuthenticationFailure) {
//	    // nothing was written
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter,
// passed through to the store.
package workflows

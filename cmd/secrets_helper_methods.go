package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/PolarWolf314/nova/internal/configs"
	nerrors "github.com/PolarWolf314/nova/internal/errors"
	logger "github.com/PolarWolf314/nova/internal/logging"
	"github.com/PolarWolf314/nova/internal/location"
	"github.com/PolarWolf314/nova/internal/secrets"
	"github.com/PolarWolf314/nova/internal/store"
	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/utils"
	"github.com/PolarWolf314/nova/internal/workflows"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var (
	// newPrompter returns the password source for vault commands.
	// Can be overridden for testing.
	newPrompter = func() workflows.Prompter { return utils.TerminalPrompter{} }

	// openStore connects to the configured database.
	openStore = store.Open
)

// SetPrompter replaces the password source for testing. Nil restores the terminal prompter.
func SetPrompter(p workflows.Prompter) {
	if p == nil {
		newPrompter = func() workflows.Prompter { return utils.TerminalPrompter{} }
		return
	}
	newPrompter = func() workflows.Prompter { return p }
}

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
// Uses the global debug flag from the secrets command.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	return startSpinnerWithFlags(message, verbose, debug)
}

// startSpinnerWithFlags creates and starts a spinner with explicit verbose and debug flags.
// This is useful for commands that have their own flag variables (e.g., config commands).
func startSpinnerWithFlags(message string, verbose, debugFlag bool) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	// Ignore color errors - continue without colored spinner if it fails.
	_ = s.Color("cyan")

	if !verbose && !debugFlag {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	}

	cleanup := func() {
		// Restore log output first.
		if !verbose && !debugFlag {
			log.SetOutput(os.Stdout)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		// Stop the spinner first to clear the spinner line.
		if !verbose && !debugFlag {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// spinnerPrompter pauses the spinner while the user types a password.
type spinnerPrompter struct {
	spinner *spinner.Spinner
	next    workflows.Prompter
}

func (p spinnerPrompter) ReadPassword(prompt string) (string, error) {
	if p.spinner != nil && p.spinner.Active() {
		p.spinner.Stop()
		defer p.spinner.Start()
	}
	return p.next.ReadPassword(prompt)
}

// loadSettings reads the settings file and environment overrides.
func loadSettings(l logger.Logger) (*configs.Settings, error) {
	l.Debugf("Loading settings from %s", configs.NovaPaths.SettingsPath)
	settings, err := configs.LoadSettings(configs.NovaPaths.SettingsPath)
	if err != nil {
		return nil, err
	}
	l.Debugf("Projects dir: %s, segment: %s, scheme: %s",
		settings.Vault.ProjectsDir, settings.Vault.ProjectSegment, settings.Vault.Scheme)
	return settings, nil
}

// openBackend connects to the database named in settings.
func openBackend(ctx context.Context, l logger.Logger, settings *configs.Settings) (store.Backend, error) {
	databaseURL, err := settings.RequireDatabaseURL()
	if err != nil {
		return nil, err
	}
	l.Debugf("Connecting to database")
	backend, err := openStore(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	l.Infof("Connected to database")
	return backend, nil
}

// vaultSession is an open vault bound to the project of the working directory.
type vaultSession struct {
	vault    *workflows.Vault
	auth     workflows.Authorization
	settings *configs.Settings
	backend  store.Backend
}

func (s *vaultSession) Close() {
	if err := s.backend.Close(); err != nil {
		Logger.Warnf("Failed to close database connection: %v", err)
	}
}

// openVault resolves the project from the working directory, builds the
// cipher engine and connects to the store, in that order.
func openVault(ctx context.Context, s *spinner.Spinner) (*vaultSession, error) {
	settings, err := loadSettings(Logger)
	if err != nil {
		return nil, err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", nerrors.ErrFilesystem, err)
	}
	auth, err := workflows.Authorize(location.NewResolver(settings.Vault.ProjectSegment), workDir)
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Project: %s, folder: %q", auth.Project, folderOrRoot(auth.Folder))

	engine, err := secrets.NewEngine(settings.EngineConfig())
	if err != nil {
		return nil, err
	}

	backend, err := openBackend(ctx, Logger, settings)
	if err != nil {
		return nil, err
	}

	return &vaultSession{
		vault: &workflows.Vault{
			Secrets:     backend,
			Configs:     backend,
			Engine:      engine,
			Prompter:    spinnerPrompter{spinner: s, next: newPrompter()},
			ProjectsDir: settings.Vault.ProjectsDir,
		},
		auth:     auth,
		settings: settings,
		backend:  backend,
	}, nil
}

func folderOrRoot(folder *string) string {
	if folder == nil {
		return ""
	}
	return *folder
}

// formatVaultError turns a failure before or outside the per-item loop into a user-facing message.
func formatVaultError(err error) string {
	switch {
	case errors.Is(err, nerrors.ErrInvalidLocation):
		return ui.FailureLine("Not inside a project directory", "", nil) + "\n" +
			ui.HintLine("Run this command from " + ui.Path.Sprint("<projects dir>/<project>")) + "\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, nerrors.ErrAuthenticationFailure):
		return ui.FailureLine("Incorrect password", "", nil) + "\n" +
			ui.HintLine("If no password has been set yet, run " + ui.Code.Sprint("nova config init"))

	case errors.Is(err, nerrors.ErrMissingSetting):
		return ui.FailureLine("No database configured", "", nil) + "\n" +
			ui.HintLine("Set "+ui.Code.Sprint(configs.EnvDatabaseURL)+" or run "+
				ui.Code.Sprint("nova config init --database-url <url>"))

	case errors.Is(err, nerrors.ErrUnsupportedDatabase):
		return ui.FailureLine("Unsupported database URL", "", err) + "\n" +
			ui.HintLine("Use a postgres://, mysql://, mongodb:// or sqlite:// URL")

	case errors.Is(err, nerrors.ErrStoreUnavailable):
		return ui.FailureLine("Unable to reach the database", "", err)

	case errors.Is(err, nerrors.ErrMissingNonce),
		errors.Is(err, nerrors.ErrInvalidNonce),
		errors.Is(err, nerrors.ErrUnknownScheme):
		return ui.FailureLine("Vault settings are invalid", "", err) + "\n" +
			ui.HintLine("Run "+ui.Code.Sprint("nova secrets doctor")+" for details")

	case errors.Is(err, nerrors.ErrPathOutsideProject):
		return ui.FailureLine("Path is outside the project", "", err)

	case errors.Is(err, nerrors.ErrEmptyPath):
		return ui.FailureLine("No path provided", "", nil)

	default:
		return ui.FailureLine("Failed", "", err)
	}
}

// reported marks err as already shown to the user so cobra does not print it
// again, and returns it so the process still exits non-zero.
func reported(cmd *cobra.Command, err error) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return err
}

// batchError summarises a batch with failed items.
func batchError(failed, total int, noun string) error {
	return fmt.Errorf("%d of %d %s failed", failed, total, noun)
}

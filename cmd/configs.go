package cmd

import (
	"context"
	"errors"
	"os"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
	logger "github.com/PolarWolf314/nova/internal/logging"
	"github.com/PolarWolf314/nova/internal/store"
	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	configsVerbose bool
	configsDebug   bool
	ConfigsLogger  logger.Logger

	// ConfigsCmd is the top-level command for shared config snippets.
	ConfigsCmd = &cobra.Command{
		Use:   "configs",
		Short: "Manage reusable config snippets",
		Long: `Stores plain-text config files under a short name and writes them into any
directory on demand. Snippets are shared across projects and are not encrypted,
so no password is needed.

Examples:
  # Store .prettierrc under the shorthand "prettier"
  nova configs add prettier .prettierrc

  # List stored snippets
  nova configs list

  # Write snippets into the current directory
  nova configs clone prettier editorconfig

  # Remove a snippet
  nova configs remove prettier`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ConfigsLogger = logger.Logger{
				Verbose: configsVerbose,
				Debug:   configsDebug,
			}
			ConfigsLogger.Debugf("Initializing configs command with verbose=%t, debug=%t", configsVerbose, configsDebug)
		},
	}
)

func init() {
	ConfigsCmd.PersistentFlags().BoolVarP(&configsVerbose, "verbose", "v", false, "enable verbose output")
	ConfigsCmd.PersistentFlags().BoolVarP(&configsDebug, "debug", "d", false, "enable debug output")

	ConfigsCmd.AddCommand(configsListCmd)
	ConfigsCmd.AddCommand(configsCloneCmd)
	ConfigsCmd.AddCommand(configsAddCmd)
	ConfigsCmd.AddCommand(configsRemoveCmd)
}

// GetConfigsCmd returns the ConfigsCmd for testing.
func GetConfigsCmd() *cobra.Command {
	return ConfigsCmd
}

// ResetConfigsState resets all configs command global variables to their default values for testing.
func ResetConfigsState() {
	configsVerbose = false
	configsDebug = false
	resetCobraFlagState(ConfigsCmd)
}

// configsSession is an open store for the configs commands.
type configsSession struct {
	vault   *workflows.Vault
	backend store.Backend
	workDir string
}

func (s *configsSession) Close() {
	if err := s.backend.Close(); err != nil {
		ConfigsLogger.Warnf("Failed to close database connection: %v", err)
	}
}

// openConfigs connects to the store. Snippets are not tied to a project, so
// the working directory is not resolved and no cipher engine is built.
func openConfigs(ctx context.Context) (*configsSession, error) {
	settings, err := loadSettings(ConfigsLogger)
	if err != nil {
		return nil, err
	}
	workDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	backend, err := openBackend(ctx, ConfigsLogger, settings)
	if err != nil {
		return nil, err
	}
	return &configsSession{
		vault:   &workflows.Vault{Configs: backend},
		backend: backend,
		workDir: workDir,
	}, nil
}

// formatConfigsError formats a configs failure for display to the user.
func formatConfigsError(err error) string {
	switch {
	case errors.Is(err, nerrors.ErrShorthandExists):
		return ui.FailureLine("A snippet with this shorthand already exists", "", nil) + "\n" +
			ui.HintLine("Remove it first with " + ui.Code.Sprint("nova configs remove <shorthand>"))
	case errors.Is(err, nerrors.ErrFilenameExists):
		return ui.FailureLine("A snippet for this filename already exists", "", nil) + "\n" +
			ui.HintLine("Run " + ui.Code.Sprint("nova configs list") + " to find its shorthand")
	case errors.Is(err, nerrors.ErrInvalidShorthand):
		return ui.FailureLine("Invalid shorthand", "", err) + "\n" +
			ui.HintLine("Use letters, digits, '.', '_' and '-', starting with a letter or digit")
	case errors.Is(err, nerrors.ErrConfigNotFound):
		return ui.FailureLine("No snippet found with this shorthand", "", err)
	case errors.Is(err, nerrors.ErrNoShorthands):
		return ui.FailureLine("No shorthands provided", "", nil) + "\n" +
			ui.HintLine("Run " + ui.Code.Sprint("nova configs list") + " to see stored snippets")
	default:
		return formatVaultError(err)
	}
}

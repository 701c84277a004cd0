package cmd

import (
	logger "github.com/PolarWolf314/nova/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	SecretsCmd = &cobra.Command{
		Use:   "secrets",
		Short: "Manage project secrets stored in the vault",
		Long: `Stores per-project secret files encrypted in the database and writes them
back to disk on demand.

The project is derived from the working directory, which must be inside
<projects segment>/<project>. File arguments are relative to the working
directory and are stored under their project-relative path.

Examples:
  nova secrets set .env
  nova secrets list
  nova secrets clone
  nova secrets check
  nova secrets remove .env`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing secrets command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	SecretsCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	SecretsCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	SecretsCmd.AddCommand(listCmd)
	SecretsCmd.AddCommand(cloneCmd)
	SecretsCmd.AddCommand(checkCmd)
	SecretsCmd.AddCommand(setCmd)
	SecretsCmd.AddCommand(removeCmd)
	SecretsCmd.AddCommand(rotateCmd)
	SecretsCmd.AddCommand(exportCmd)
	SecretsCmd.AddCommand(importCmd)
	SecretsCmd.AddCommand(doctorCmd)
	SecretsCmd.AddCommand(logCmd)
}

// Helper functions for testing

// GetSecretsCmd returns the SecretsCmd for testing.
func GetSecretsCmd() *cobra.Command {
	return SecretsCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetListCommandState()
	resetRotateCommandState()
	resetExportCommandState()
	resetImportCommandState()
	resetDoctorCommandState()
	resetLogCommandState()
	resetCobraFlagState(SecretsCmd)
}

// resetCobraFlagState clears the changed marker on every flag below root so
// a command tree can be executed repeatedly in one process.
func resetCobraFlagState(root *cobra.Command) {
	root.SilenceErrors = false
	root.SilenceUsage = false
	root.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
	})
	root.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
	})
	for _, child := range root.Commands() {
		resetCobraFlagState(child)
	}
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}

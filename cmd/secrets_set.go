package cmd

import (
	"context"
	"errors"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/workflows"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <file>",
	Short: "Encrypt a local file and store it for the current project",
	Long: `Reads a file relative to the working directory, encrypts it with the vault
password and stores it under its project-relative path. A secret already
stored under that path is replaced.

Examples:
  nova secrets set .env
  nova secrets set config/credentials.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting set command")
		ctx := context.Background()

		spinner, cleanup := startSpinner("Storing secret...", verbose)
		defer cleanup()

		session, err := openVault(ctx, spinner)
		if err != nil {
			spinner.FinalMSG = formatVaultError(err)
			return reported(cmd, err)
		}
		defer session.Close()

		op := workflows.SetOp{Options: workflows.SetOptions{LocalFile: args[0]}}
		result, err := workflows.Run(ctx, session.vault, session.auth, op)
		if err != nil {
			if errors.Is(err, nerrors.ErrFilesystem) {
				spinner.FinalMSG = ui.FailureLine("Unable to read file", args[0], err)
			} else {
				spinner.FinalMSG = formatVaultError(err)
			}
			return reported(cmd, err)
		}
		set := result.(*workflows.SetResult)

		Logger.Infof("Stored %s for project %s", set.Path, set.Project)
		spinner.FinalMSG = ui.SuccessLine("Secret stored", set.Path)
		return nil
	},
}

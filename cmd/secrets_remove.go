package cmd

import (
	"context"
	"errors"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/workflows"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove a stored secret from the current project",
	Long: `Deletes the secret stored under a path relative to the working directory,
the same path that was given to set. Local files are not touched and no
password is needed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting remove command")
		ctx := context.Background()

		spinner, cleanup := startSpinner("Removing secret...", verbose)
		defer cleanup()

		session, err := openVault(ctx, spinner)
		if err != nil {
			spinner.FinalMSG = formatVaultError(err)
			return reported(cmd, err)
		}
		defer session.Close()

		op := workflows.RemoveOp{Options: workflows.RemoveOptions{Path: args[0]}}
		result, err := workflows.Run(ctx, session.vault, session.auth, op)
		if err != nil {
			if errors.Is(err, nerrors.ErrSecretNotFound) {
				spinner.FinalMSG = ui.FailureLine("No secret found stored with this path", args[0], nil) + "\n" +
					ui.HintLine("Run "+ui.Code.Sprint("nova secrets list")+" to see stored paths")
			} else {
				spinner.FinalMSG = formatVaultError(err)
			}
			return reported(cmd, err)
		}
		removed := result.(*workflows.RemoveResult)

		Logger.Infof("Removed %s from project %s", removed.Path, removed.Project)
		spinner.FinalMSG = ui.SuccessLine("Secret removed", removed.Path)
		return nil
	},
}

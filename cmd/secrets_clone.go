package cmd

import (
	"context"

	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/workflows"
	"github.com/spf13/cobra"
)

var cloneCmd = &cobra.Command{
	Use:   "clone",
	Short: "Write every secret of the current project to disk",
	Long: `Decrypts every secret stored for the current project and writes it to
<projects dir>/<project>/<path>, creating parent directories as needed.

Existing files are overwritten. Each secret is reported on its own line, and
the command exits non-zero if any secret could not be written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting clone command")
		ctx := context.Background()

		spinner, cleanup := startSpinner("Cloning secrets...", verbose)
		defer cleanup()

		session, err := openVault(ctx, spinner)
		if err != nil {
			spinner.FinalMSG = formatVaultError(err)
			return reported(cmd, err)
		}
		defer session.Close()

		result, err := workflows.Run(ctx, session.vault, session.auth, workflows.CloneOp{})
		if err != nil {
			spinner.FinalMSG = formatVaultError(err)
			return reported(cmd, err)
		}
		clone := result.(*workflows.CloneResult)

		if len(clone.Items) == 0 {
			spinner.FinalMSG = ui.WarningLine("No secrets stored for project", clone.Project)
			return nil
		}

		msg := ""
		failed := 0
		for _, item := range clone.Items {
			if item.Err != nil {
				failed++
				Logger.Errorf("Failed to write %s: %v", item.Target(), item.Err)
				msg += ui.FailureLine("Unable to write file", item.Target(), item.Err) + "\n"
				continue
			}
			msg += ui.SuccessLine("Wrote to file", item.LocalPath) + "\n"
		}
		Logger.Infof("Clone completed: %d written, %d failed", len(clone.Written()), failed)
		spinner.FinalMSG = msg

		if failed > 0 {
			return reported(cmd, batchError(failed, len(clone.Items), "secrets"))
		}
		return nil
	},
}

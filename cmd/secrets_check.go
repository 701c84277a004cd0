package cmd

import (
	"context"

	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/workflows"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare stored secrets with the files on disk",
	Long: `Decrypts every secret stored for the current project and compares it with
the file at <projects dir>/<project>/<path>. Nothing is written.

Each secret is reported as identical, non-identical or non-existent.
Differences are not failures; the command exits non-zero only when a secret
could not be decrypted or its file could not be read.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting check command")
		ctx := context.Background()

		spinner, cleanup := startSpinner("Checking secrets...", verbose)
		defer cleanup()

		session, err := openVault(ctx, spinner)
		if err != nil {
			spinner.FinalMSG = formatVaultError(err)
			return reported(cmd, err)
		}
		defer session.Close()

		result, err := workflows.Run(ctx, session.vault, session.auth, workflows.CheckOp{})
		if err != nil {
			spinner.FinalMSG = formatVaultError(err)
			return reported(cmd, err)
		}
		check := result.(*workflows.CheckResult)

		if len(check.Items) == 0 {
			spinner.FinalMSG = ui.WarningLine("No secrets stored for project", check.Project)
			return nil
		}

		msg := ""
		failed := 0
		for _, item := range check.Items {
			if item.Err != nil {
				failed++
				msg += ui.FailureLine("Unable to check secret", item.Target(), item.Err) + "\n"
				continue
			}
			switch item.Status {
			case workflows.StatusIdentical:
				msg += ui.SuccessLine("Identical secret", item.LocalPath) + "\n"
			case workflows.StatusNonIdentical:
				msg += ui.WarningLine("Non-identical secret", item.LocalPath) + "\n"
			case workflows.StatusNonExistent:
				msg += ui.WarningLine("Non-existent secret", item.LocalPath) + "\n"
			}
		}
		if drifted := check.Drifted(); drifted > 0 {
			msg += ui.HintLine("Run " + ui.Code.Sprint("nova secrets clone") + " to overwrite local files with the stored secrets")
		}
		Logger.Infof("Check completed: %d drifted, %d failed", check.Drifted(), failed)
		spinner.FinalMSG = msg

		if failed > 0 {
			return reported(cmd, batchError(failed, len(check.Items), "secrets"))
		}
		return nil
	},
}

package cmd

import (
	"context"
	"errors"
	"fmt"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/workflows"

	"github.com/spf13/cobra"
)

var exportOutputPath string

func init() {
	exportCmd.Flags().StringVarP(&exportOutputPath, "output", "o", "", "output path for the archive (default: nova-<project>-YYYY-MM-DD.tar.gz)")
}

// resetExportCommandState resets the export command's global state for testing.
func resetExportCommandState() {
	exportOutputPath = ""
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the project's encrypted secrets to a backup archive",
	Long: `Creates a tar.gz archive containing every secret of the current project
exactly as stored. Nothing is decrypted, so no password is needed, and the
archive can only be restored into a vault using the same password.

The archive includes:
  - manifest.toml (project name, export time and secret count)
  - secrets/<path> (the stored ciphertext of each secret)

Use -o/--output to specify a custom output path.
Default filename includes the project and today's date: nova-<project>-YYYY-MM-DD.tar.gz

Examples:
  # Export to default filename
  nova secrets export

  # Export to custom path
  nova secrets export -o /backups/project-secrets.tar.gz`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting export command")
		ctx := context.Background()

		spinner, cleanup := startSpinner("Exporting secrets...", verbose)
		defer cleanup()

		session, err := openVault(ctx, spinner)
		if err != nil {
			spinner.FinalMSG = formatVaultError(err)
			return reported(cmd, err)
		}
		defer session.Close()

		result, err := workflows.Export(ctx, session.vault, session.auth, workflows.ExportOptions{OutputPath: exportOutputPath})
		if err != nil {
			switch {
			case errors.Is(err, nerrors.ErrSecretNotFound):
				spinner.FinalMSG = ui.WarningLine("No secrets stored for project", session.auth.Project)
				return nil
			case errors.Is(err, nerrors.ErrFilesystem):
				spinner.FinalMSG = ui.FailureLine("Unable to write archive", exportOutputPath, err)
			default:
				spinner.FinalMSG = formatVaultError(err)
			}
			return reported(cmd, err)
		}

		Logger.Infof("Exported %d secrets to %s", result.SecretCount, result.OutputPath)
		spinner.FinalMSG = ui.SuccessLine("Exported secrets to", result.OutputPath) + "\n\n" +
			fmt.Sprintf("Archive contents:\n  %d secrets from %s\n\n", result.SecretCount, ui.Highlight.Sprint(result.Project)) +
			ui.HintLine("This archive holds encrypted data only. Restore it with "+ui.Code.Sprint("nova secrets import"))
		return nil
	},
}

package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/workflows"
	"github.com/spf13/cobra"
)

var listRaw bool

func init() {
	listCmd.Flags().BoolVar(&listRaw, "raw", false, "report stored ciphertext sizes without asking for the password")
}

// resetListCommandState resets the list command's global state for testing.
func resetListCommandState() {
	listRaw = false
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the secrets stored for the current project",
	Long: `Lists every secret stored for the current project with its size.

The password is required so that the plaintext size can be reported.
Use --raw to list without a password; sizes are then the stored ciphertext length.
Secret content is never printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting list command")
		ctx := context.Background()

		spinner, cleanup := startSpinner("Loading secrets...", verbose)
		defer cleanup()

		session, err := openVault(ctx, spinner)
		if err != nil {
			spinner.FinalMSG = formatVaultError(err)
			return reported(cmd, err)
		}
		defer session.Close()

		result, err := workflows.List(ctx, session.vault, session.auth, workflows.ListOptions{Raw: listRaw})
		if err != nil {
			spinner.FinalMSG = formatVaultError(err)
			return reported(cmd, err)
		}
		Logger.Infof("Found %d secrets for project %s", len(result.Entries), result.Project)

		if len(result.Entries) == 0 {
			spinner.FinalMSG = ui.WarningLine("No secrets stored for project", result.Project)
			return nil
		}

		qualifier := ""
		if result.Raw {
			qualifier = "stored"
		}

		msg := ui.Info.Sprint("Secrets for ") + ui.Highlight.Sprint(result.Project) + ":\n"
		failed := 0
		for _, entry := range result.Entries {
			if entry.Err != nil {
				failed++
				msg += "  " + ui.FailureLine("Unable to decrypt secret", entry.Path, entry.Err) + "\n"
				continue
			}
			msg += fmt.Sprintf("  %s  %s\n", ui.Path.Sprint(entry.Path), ui.Size(entry.Size, qualifier))
		}
		spinner.FinalMSG = msg

		if failed > 0 {
			return reported(cmd, batchError(failed, len(result.Entries), "secrets"))
		}
		return nil
	},
}

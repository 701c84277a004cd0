package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/workflows"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var rotateForce bool

func init() {
	rotateCmd.Flags().BoolVar(&rotateForce, "force", false, "skip confirmation prompt")
}

// resetRotateCommandState resets the rotate command's global state for testing.
func resetRotateCommandState() {
	rotateForce = false
}

// confirmRotate prompts the user to confirm re-encrypting every secret.
// Returns true if the user confirms, false otherwise.
func confirmRotate(s *spinner.Spinner, scheme string) bool {
	s.Stop()

	fmt.Printf("\n%s This will re-encrypt every secret of this project with the %s scheme.\n",
		ui.Warning.Sprint("Warning:"), ui.Highlight.Sprint(scheme))
	fmt.Println("  Older nova versions may not be able to read the rewritten secrets.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Do you want to continue? [y/N]: ")
	response, err := reader.ReadString('\n')
	if err != nil {
		Logger.Errorf("Failed to read response: %v", err)
		s.Restart()
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))

	s.Restart()
	return response == "y" || response == "yes"
}

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Re-encrypt the project's secrets with the configured scheme",
	Long: `Decrypts every secret of the current project and encrypts it again with the
scheme set in the settings file (sealed by default).

Use this after switching from the legacy scheme so that stored secrets get a
per-secret salt and nonce. The vault password is unchanged.

Examples:
  nova secrets rotate
  nova secrets rotate --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting rotate command")
		ctx := context.Background()

		spinner, cleanup := startSpinner("Rotating secrets...", verbose)
		defer cleanup()

		session, err := openVault(ctx, spinner)
		if err != nil {
			spinner.FinalMSG = formatVaultError(err)
			return reported(cmd, err)
		}
		defer session.Close()

		if !rotateForce {
			if !confirmRotate(spinner, string(session.vault.Engine.Scheme())) {
				spinner.FinalMSG = ui.WarningLine("Rotation cancelled", "")
				return nil
			}
		}

		result, err := workflows.Rotate(ctx, session.vault, session.auth)
		if err != nil {
			spinner.FinalMSG = formatVaultError(err)
			return reported(cmd, err)
		}

		if len(result.Items) == 0 {
			spinner.FinalMSG = ui.WarningLine("No secrets stored for project", result.Project)
			return nil
		}

		msg := ""
		failed := 0
		for _, item := range result.Items {
			if item.Err != nil {
				failed++
				msg += ui.FailureLine("Unable to rotate secret", item.Path, item.Err) + "\n"
				continue
			}
			msg += ui.SuccessLine("Secret rotated", item.Path) + "\n"
		}
		msg += ui.HintLine(fmt.Sprintf("%d secrets now use the %s scheme", len(result.Rotated()), result.Scheme))
		spinner.FinalMSG = msg

		if failed > 0 {
			return reported(cmd, batchError(failed, len(result.Items), "secrets"))
		}
		return nil
	},
}

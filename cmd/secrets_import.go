package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/utils"
	"github.com/PolarWolf314/nova/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	importMergeFlag   bool
	importReplaceFlag bool
	importDryRunFlag  bool
)

func init() {
	importCmd.Flags().BoolVar(&importMergeFlag, "merge", false, "add secrets from the archive and keep existing ones")
	importCmd.Flags().BoolVar(&importReplaceFlag, "replace", false, "make the project's secrets exactly those in the archive")
	importCmd.Flags().BoolVar(&importDryRunFlag, "dry-run", false, "show what would be imported without making changes")
}

// resetImportCommandState resets the import command's global state for testing.
func resetImportCommandState() {
	importMergeFlag = false
	importReplaceFlag = false
	importDryRunFlag = false
}

var importCmd = &cobra.Command{
	Use:   "import <archive>",
	Short: "Import secrets from a backup archive",
	Long: `Restores secrets from a tar.gz archive created by the export command into
the current project. Stored ciphertext is copied as is, so the archive must
come from a vault with the same password.

Import modes:
  --merge    Add secrets from the archive, keep existing secrets
  --replace  Overwrite matching secrets and remove those not in the archive

If neither --merge nor --replace is specified and the project already has
secrets, you will be prompted to choose when running in a terminal.
Otherwise merge is used.

Examples:
  nova secrets import nova-api-2024-01-15.tar.gz
  nova secrets import backup.tar.gz --replace
  nova secrets import backup.tar.gz --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting import command")
		archivePath := args[0]
		ctx := context.Background()

		if importMergeFlag && importReplaceFlag {
			return Logger.ErrorfAndReturn("cannot use both --merge and --replace flags")
		}

		spinner, cleanup := startSpinner("Importing secrets...", verbose)
		defer cleanup()

		session, err := openVault(ctx, spinner)
		if err != nil {
			spinner.FinalMSG = formatVaultError(err)
			return reported(cmd, err)
		}
		defer session.Close()

		mode := workflows.ImportModeMerge
		switch {
		case importReplaceFlag:
			mode = workflows.ImportModeReplace
		case importMergeFlag, importDryRunFlag:
		case utils.IsTerminal():
			existing, err := session.vault.Secrets.GetAll(ctx, session.auth.Project)
			if err != nil {
				spinner.FinalMSG = formatVaultError(err)
				return reported(cmd, err)
			}
			if len(existing) > 0 {
				spinner.Stop()
				var ok bool
				mode, ok = promptForImportMode(session.auth.Project, len(existing))
				if !ok {
					fmt.Println(ui.WarningLine("Import cancelled", ""))
					return nil
				}
				spinner.Start()
			}
		}
		Logger.Debugf("Import mode: %v, dry-run: %v", mode, importDryRunFlag)

		result, err := workflows.Import(ctx, session.vault, session.auth, workflows.ImportOptions{
			ArchivePath: archivePath,
			Mode:        mode,
			DryRun:      importDryRunFlag,
		})
		if err != nil {
			switch {
			case errors.Is(err, nerrors.ErrInvalidArchive):
				spinner.FinalMSG = ui.FailureLine("Invalid archive file:", archivePath, err) + "\n" +
					ui.HintLine("Ensure it was created with "+ui.Code.Sprint("nova secrets export"))
			case errors.Is(err, nerrors.ErrFilesystem):
				spinner.FinalMSG = ui.FailureLine("Unable to read archive", archivePath, err)
			default:
				spinner.FinalMSG = formatVaultError(err)
			}
			return reported(cmd, err)
		}

		spinner.FinalMSG = formatImportResult(archivePath, result)
		return nil
	},
}

func formatImportResult(archivePath string, result *workflows.ImportResult) string {
	var b strings.Builder
	if result.DryRun {
		b.WriteString(ui.Info.Sprint("Dry run") + " - no changes made\n\n")
	} else {
		b.WriteString(ui.SuccessLine("Imported secrets from", archivePath) + "\n\n")
	}

	modeStr := "Merge"
	if result.Mode == workflows.ImportModeReplace {
		modeStr = "Replace"
	}
	fmt.Fprintf(&b, "Mode: %s\n", modeStr)
	fmt.Fprintf(&b, "Source project: %s\n", ui.Highlight.Sprint(result.SourceProject))
	fmt.Fprintf(&b, "  Added: %d\n", len(result.Added))
	if result.Mode == workflows.ImportModeMerge {
		fmt.Fprintf(&b, "  Skipped (already exist): %d\n", len(result.Skipped))
	} else {
		fmt.Fprintf(&b, "  Replaced: %d\n", len(result.Replaced))
		fmt.Fprintf(&b, "  Removed: %d\n", len(result.Removed))
	}

	if !result.DryRun {
		b.WriteString("\n" + ui.HintLine("Run "+ui.Code.Sprint("nova secrets clone")+" to write the imported secrets to disk"))
	}
	return b.String()
}

// promptForImportMode asks the user how to handle the project's existing secrets.
func promptForImportMode(project string, existing int) (workflows.ImportMode, bool) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("Project %s already has %d secrets. How do you want to proceed?\n", ui.Highlight.Sprint(project), existing)
	fmt.Println("  [m] Merge - Add new secrets, keep existing")
	fmt.Println("  [r] Replace - Use the archive's secrets only")
	fmt.Println("  [c] Cancel")
	fmt.Print("Choice: ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return 0, false
	}
	response = strings.TrimSpace(strings.ToLower(response))

	switch response {
	case "m", "merge":
		return workflows.ImportModeMerge, true
	case "r", "replace":
		return workflows.ImportModeReplace, true
	default:
		return 0, false
	}
}

package cmd

import (
	"context"
	"errors"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/workflows"
	"github.com/spf13/cobra"
)

var configsCloneCmd = &cobra.Command{
	Use:   "clone <shorthand>...",
	Short: "Write config snippets into the current directory",
	Long: `Writes the snippet for each shorthand to its stored filename, relative to
the current directory. Existing files are overwritten. Unknown shorthands are
reported and do not stop the others.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigsLogger.Infof("Starting configs clone command")
		ctx := context.Background()

		spinner, cleanup := startSpinnerWithFlags("Cloning config snippets...", configsVerbose, configsDebug)
		defer cleanup()

		session, err := openConfigs(ctx)
		if err != nil {
			spinner.FinalMSG = formatConfigsError(err)
			return reported(cmd, err)
		}
		defer session.Close()

		result, err := workflows.ConfigsClone(ctx, session.vault, session.workDir, args)
		if err != nil {
			spinner.FinalMSG = formatConfigsError(err)
			return reported(cmd, err)
		}

		msg := ""
		failed := 0
		for _, item := range result.Items {
			switch {
			case errors.Is(item.Err, nerrors.ErrConfigNotFound):
				failed++
				msg += ui.FailureLine("No snippet found with shorthand", item.Shorthand, nil) + "\n"
			case item.Err != nil && item.Filename != "" && item.LocalPath == "":
				failed++
				msg += ui.FailureLine("Unable to write file", item.Filename, item.Err) + "\n"
			case item.Err != nil && item.LocalPath == "":
				failed++
				msg += ui.FailureLine("Unable to read snippet", item.Shorthand, item.Err) + "\n"
			case item.Err != nil:
				failed++
				msg += ui.FailureLine("Unable to write file", item.LocalPath, item.Err) + "\n"
			default:
				msg += ui.SuccessLine("Wrote to file", item.LocalPath) + "\n"
			}
		}
		spinner.FinalMSG = msg

		if failed > 0 {
			return reported(cmd, batchError(failed, len(result.Items), "snippets"))
		}
		return nil
	},
}

package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/workflows"
	"github.com/spf13/cobra"
)

var configsAddCmd = &cobra.Command{
	Use:   "add <shorthand> <file>",
	Short: "Store a config snippet under a shorthand",
	Long: `Stores the content of a file, relative to the current directory, under a
shorthand. The filename is kept so that clone writes it back under the same
name. If the file cannot be read, an empty snippet is stored.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigsLogger.Infof("Starting configs add command")
		ctx := context.Background()

		spinner, cleanup := startSpinnerWithFlags("Storing config snippet...", configsVerbose, configsDebug)
		defer cleanup()

		session, err := openConfigs(ctx)
		if err != nil {
			spinner.FinalMSG = formatConfigsError(err)
			return reported(cmd, err)
		}
		defer session.Close()

		result, err := workflows.ConfigsAdd(ctx, session.vault, workflows.ConfigsAddOptions{
			Shorthand: args[0],
			Filename:  args[1],
			WorkDir:   session.workDir,
		})
		if err != nil {
			spinner.FinalMSG = formatConfigsError(err)
			return reported(cmd, err)
		}

		msg := ""
		if result.Unreadable {
			msg += ui.WarningLine("Unable to read file, stored an empty snippet for", result.Filename) + "\n"
		}
		msg += ui.SuccessLine(fmt.Sprintf("Stored snippet %s for", ui.Highlight.Sprint(result.Shorthand)), result.Filename)
		spinner.FinalMSG = msg
		return nil
	},
}

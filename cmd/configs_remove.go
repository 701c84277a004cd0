package cmd

import (
	"context"

	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/workflows"
	"github.com/spf13/cobra"
)

var configsRemoveCmd = &cobra.Command{
	Use:   "remove <shorthand>",
	Short: "Remove a stored config snippet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigsLogger.Infof("Starting configs remove command")
		ctx := context.Background()

		spinner, cleanup := startSpinnerWithFlags("Removing config snippet...", configsVerbose, configsDebug)
		defer cleanup()

		session, err := openConfigs(ctx)
		if err != nil {
			spinner.FinalMSG = formatConfigsError(err)
			return reported(cmd, err)
		}
		defer session.Close()

		if err := workflows.ConfigsRemove(ctx, session.vault, args[0]); err != nil {
			spinner.FinalMSG = formatConfigsError(err)
			return reported(cmd, err)
		}

		spinner.FinalMSG = ui.SuccessLine("Snippet removed", args[0])
		return nil
	},
}

package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/workflows"
	"github.com/spf13/cobra"
)

var configsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored config snippets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigsLogger.Infof("Starting configs list command")
		ctx := context.Background()

		spinner, cleanup := startSpinnerWithFlags("Loading config snippets...", configsVerbose, configsDebug)
		defer cleanup()

		session, err := openConfigs(ctx)
		if err != nil {
			spinner.FinalMSG = formatConfigsError(err)
			return reported(cmd, err)
		}
		defer session.Close()

		entries, err := workflows.ConfigsList(ctx, session.vault)
		if err != nil {
			spinner.FinalMSG = formatConfigsError(err)
			return reported(cmd, err)
		}
		ConfigsLogger.Infof("Found %d snippets", len(entries))

		if len(entries) == 0 {
			spinner.FinalMSG = ui.WarningLine("No config snippets stored", "") + "\n" +
				ui.HintLine("Add one with "+ui.Code.Sprint("nova configs add <shorthand> <file>"))
			return nil
		}

		width := 0
		for _, e := range entries {
			width = max(width, len(e.Shorthand))
		}
		msg := ""
		for _, e := range entries {
			msg += fmt.Sprintf("  %-*s  %s %s\n", width, e.Shorthand, ui.Path.Sprint(e.Filename), ui.Size(e.Size, ""))
		}
		spinner.FinalMSG = msg
		return nil
	},
}

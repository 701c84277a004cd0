package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PolarWolf314/nova/internal/audit"
	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	logProject   string
	logLimit     int
	logReverse   bool
	logUser      string
	logOperation string
	logSince     string
	logUntil     string
	logOneline   bool
	logJSON      bool
)

func init() {
	logCmd.Flags().StringVarP(&logProject, "project", "p", "", "filter by project name")
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logUser, "user", "", "filter by OS user")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "compact one-line format")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logProject = ""
	logLimit = 0
	logReverse = false
	logUser = ""
	logOperation = ""
	logSince = ""
	logUntil = ""
	logOneline = false
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the local audit log of vault operations.

Every successful set, remove, clone, rotate and import is recorded in
audit.jsonl next to the settings file. Use filters to narrow down the results.

Examples:
  nova secrets log                          # View full log
  nova secrets log -n 10                    # Last 10 entries
  nova secrets log --reverse                # Most recent first
  nova secrets log --project api            # Filter by project
  nova secrets log --operation set,remove   # Filter by operation
  nova secrets log --since 2024-01-01       # Filter by date
  nova secrets log --json                   # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	spinner, cleanup := startSpinner("Loading audit log...", verbose)
	defer cleanup()

	opts := workflows.LogOptions{
		Project:    logProject,
		Limit:      logLimit,
		Reverse:    logReverse,
		User:       logUser,
		Operations: logOperation,
		Since:      logSince,
		Until:      logUntil,
	}

	result, err := workflows.Log(context.Background(), opts)
	if err != nil {
		spinner.FinalMSG = formatLogError(err)
		return reported(cmd, err)
	}

	Logger.Debugf("Parsed %d entries from audit log", result.TotalEntriesBeforeFilter)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			spinner.FinalMSG = "No audit log entries found."
		} else {
			spinner.FinalMSG = "No audit log entries found matching the filters."
		}
		return nil
	}

	switch {
	case logJSON:
		out, err := formatLogJSON(result.Entries)
		if err != nil {
			return err
		}
		spinner.FinalMSG = out
	case logOneline:
		spinner.FinalMSG = formatLogOneline(result.Entries)
	default:
		spinner.FinalMSG = formatLogDefault(result.Entries)
	}
	return nil
}

// formatLogError formats a log error for display to the user.
func formatLogError(err error) string {
	if errors.Is(err, nerrors.ErrInvalidDateFormat) {
		return ui.FailureLine(err.Error(), "", nil)
	}
	return ui.FailureLine("Failed to read audit log", "", err)
}

func formatLogJSON(entries []audit.Entry) (string, error) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	return string(data), nil
}

func formatLogOneline(entries []audit.Entry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s %s %s %s %s\n", workflows.FormatDate(e.Timestamp), e.User, e.Operation, e.Project, workflows.FormatDetails(e))
	}
	return b.String()
}

func formatLogDefault(entries []audit.Entry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%-19s  %-16s  %-8s  %-20s  %s\n",
			workflows.FormatDateTime(e.Timestamp), e.User, e.Operation, e.Project, workflows.FormatDetails(e))
	}
	return b.String()
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/nova/internal/configs"
	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	doctorJSONOutput bool
	// doctorExitFunc is the function called to exit with a specific code.
	// Can be overridden for testing.
	doctorExitFunc = os.Exit
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSONOutput, "json", false, "output in JSON format")
}

func resetDoctorCommandState() {
	doctorJSONOutput = false
	doctorExitFunc = os.Exit
}

// SetDoctorExitFunc sets the exit function for testing purposes.
func SetDoctorExitFunc(f func(int)) {
	doctorExitFunc = f
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Args:  cobra.NoArgs,
	Short: "Run health checks on the local nova setup",
	Long: `Runs a series of health checks on the nova settings and database and reports issues.

The doctor command checks:
  - Settings file presence, syntax and permissions
  - Cipher scheme and nonce configuration
  - Whether a vault password has been set
  - Database URL and connectivity
  - Whether the working directory is inside a project

Exit codes:
  0 - All checks passed
  1 - Warnings found (non-critical issues)
  2 - Errors found (critical issues)

Use --json for machine-readable output.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting doctor command")

	spinner, cleanup := startSpinner("Running health checks...", verbose)
	exitCode := 0
	// The summary line must be printed before exiting with a status code.
	defer func() {
		cleanup()
		if exitCode != 0 {
			doctorExitFunc(exitCode)
		}
	}()

	workDir, err := os.Getwd()
	if err != nil {
		return Logger.ErrorfAndReturn("failed to get current directory: %v", err)
	}

	result, err := workflows.Doctor(context.Background(), workflows.DoctorOptions{
		SettingsPath: configs.NovaPaths.SettingsPath,
		WorkDir:      workDir,
		OpenStore:    openStore,
	})
	if err != nil {
		spinner.FinalMSG = ui.FailureLine("Failed to run health checks", "", err)
		return reported(cmd, err)
	}

	for _, check := range result.Checks {
		Logger.Debugf("Check %s: status=%s, message=%s", check.Name, check.Status.String(), check.Message)
	}

	// Output results.
	if doctorJSONOutput {
		spinner.FinalMSG = ""
		if err := outputDoctorJSON(result); err != nil {
			return err
		}
	} else {
		spinner.FinalMSG = ""
		if spinner.Active() {
			spinner.Stop()
		}
		printDoctorResults(result)
		if result.Summary.Errors > 0 {
			spinner.FinalMSG = ui.FailureLine("Health checks completed with errors", "", nil)
		} else if result.Summary.Warnings > 0 {
			spinner.FinalMSG = ui.WarningLine("Health checks completed with warnings", "")
		} else {
			spinner.FinalMSG = ui.SuccessLine("Health checks completed", "")
		}
	}

	switch {
	case result.Summary.Errors > 0:
		exitCode = 2
	case result.Summary.Warnings > 0:
		exitCode = 1
	}
	return nil
}

// outputDoctorJSON outputs the result as JSON.
func outputDoctorJSON(result *workflows.DoctorResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// printDoctorResults prints the doctor results in a human-readable format.
func printDoctorResults(result *workflows.DoctorResult) {
	fmt.Println("Running health checks...")
	fmt.Println()

	for _, check := range result.Checks {
		label := ui.Muted.Sprint(check.Name)
		switch check.Status {
		case workflows.HealthPass:
			fmt.Printf("%s %s\n", ui.SuccessLine(check.Message, ""), label)
		case workflows.HealthWarning:
			fmt.Printf("%s %s\n", ui.WarningLine(check.Message, ""), label)
		case workflows.HealthError:
			fmt.Printf("%s %s\n", ui.FailureLine(check.Message, "", nil), label)
		}
	}

	fmt.Println()
	fmt.Printf("Summary: %d passed", result.Summary.Passed)
	if result.Summary.Warnings > 0 {
		fmt.Printf(", %s", ui.Warning.Sprintf("%d warning(s)", result.Summary.Warnings))
	}
	if result.Summary.Errors > 0 {
		fmt.Printf(", %s", ui.Error.Sprintf("%d error(s)", result.Summary.Errors))
	}
	fmt.Println()

	if len(result.Suggestions) > 0 {
		fmt.Println()
		fmt.Println("Suggestions:")
		for _, suggestion := range result.Suggestions {
			fmt.Printf("  %s\n", ui.HintLine(suggestion))
		}
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/nova/cmd"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nova",
	Short: "Nova - A CLI for project secrets and reusable config snippets.",
	Long: `Nova stores per-project secret files encrypted in a database and writes
them back to disk on demand, alongside plain-text config snippets shared
between projects.

Projects are identified by the working directory, which must be inside
<projects dir>/<project>.

Usage:
  nova <command> [flags]

Available Commands:
  secrets    Store, clone and check encrypted project secrets
  configs    Store and clone reusable config snippets
  config     Set the vault password and show settings

Run 'nova help <command>' for more details on a specific command.
`,
	SilenceUsage: true,
	Run: func(c *cobra.Command, args []string) {
		banner := figure.NewColorFigure("Nova", "alligator2", "green", true)
		banner.Print()
		fmt.Println()
		fmt.Println("Welcome to Nova! Run 'nova --help' to see available commands.")
	},
}

func init() {
	rootCmd.AddCommand(cmd.SecretsCmd)
	rootCmd.AddCommand(cmd.ConfigsCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

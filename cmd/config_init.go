package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/nova/internal/configs"
	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/secrets"
	"github.com/PolarWolf314/nova/internal/ui"
	"github.com/PolarWolf314/nova/internal/utils"
	"github.com/PolarWolf314/nova/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	configInitDatabaseURL string
	configInitScheme      string
	configInitForce       bool
)

func init() {
	configInitCmd.Flags().StringVar(&configInitDatabaseURL, "database-url", "", "database URL to store in the settings file")
	configInitCmd.Flags().StringVar(&configInitScheme, "scheme", "", "encryption scheme for new secrets (sealed or legacy)")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "replace an existing vault password")
	ConfigCmd.AddCommand(configInitCmd)
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitDatabaseURL = ""
	configInitScheme = ""
	configInitForce = false
}

// promptForInput prompts the user for input with an optional default value.
func promptForInput(reader *bufio.Reader, prompt, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Printf("%s: ", prompt)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	input = strings.TrimSpace(input)
	if input == "" && defaultValue != "" {
		return defaultValue, nil
	}
	return input, nil
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Set the vault password and database",
	Long: `Sets the vault password by storing it encrypted under itself in the
settings file. Every vault command checks the entered password against it.

The password is never stored in plaintext. Changing it does not re-encrypt
secrets that are already stored, so an existing password is only replaced
with --force.

When no database URL is configured and the command runs in a terminal, you
will be asked for one.

Examples:
  nova config init
  nova config init --database-url sqlite://~/.local/share/nova/vault.db
  nova config init --scheme legacy --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config init command")
		settingsPath := configs.NovaPaths.SettingsPath

		scheme := secrets.Scheme(configInitScheme)
		switch scheme {
		case "", secrets.SchemeSealed, secrets.SchemeLegacy:
		default:
			fmt.Println(ui.FailureLine("Unknown scheme", configInitScheme, nil) + "\n" +
				ui.HintLine("Use "+ui.Code.Sprint("sealed")+" or "+ui.Code.Sprint("legacy")))
			return reported(cmd, fmt.Errorf("%w: %q", nerrors.ErrUnknownScheme, configInitScheme))
		}

		databaseURL := configInitDatabaseURL
		if databaseURL == "" && utils.IsTerminal() {
			settings, err := configs.LoadSettings(settingsPath)
			if err != nil {
				return ConfigLogger.ErrorfAndReturn("Failed to load settings: %v", err)
			}
			if settings.Database.URL == "" {
				databaseURL, err = promptForInput(bufio.NewReader(os.Stdin), "Database URL", "")
				if err != nil {
					return ConfigLogger.ErrorfAndReturn("%v", err)
				}
			}
		}

		result, err := workflows.Init(context.Background(), workflows.InitOptions{
			SettingsPath: settingsPath,
			DatabaseURL:  databaseURL,
			Scheme:       scheme,
			Force:        configInitForce,
			Prompter:     newPrompter(),
		})
		if err != nil {
			fmt.Println(formatConfigInitError(err))
			return reported(cmd, err)
		}
		ConfigLogger.Infof("Settings written to %s", result.SettingsPath)

		fmt.Println(ui.SuccessLine("Vault password set in", result.SettingsPath))
		fmt.Println(ui.HintLine("New secrets use the " + ui.Highlight.Sprint(string(result.Scheme)) + " scheme"))
		if result.GeneratedNonce {
			fmt.Println(ui.WarningLine("Generated a new nonce for the legacy scheme in", result.SettingsPath))
			fmt.Println(ui.HintLine("Keep the settings file: secrets cannot be decrypted without the same nonce"))
		}
		return nil
	},
}

func formatConfigInitError(err error) string {
	switch {
	case errors.Is(err, nerrors.ErrVaultAlreadyInitialized):
		return ui.FailureLine("A vault password is already set", "", nil) + "\n" +
			ui.HintLine("Use "+ui.Flag.Sprint("--force")+" to replace it. Stored secrets keep the old password")
	case errors.Is(err, nerrors.ErrEmptyPassword):
		return ui.FailureLine("Password cannot be empty", "", nil)
	case errors.Is(err, nerrors.ErrPasswordMismatch):
		return ui.FailureLine("Passwords do not match", "", nil)
	default:
		return formatVaultError(err)
	}
}

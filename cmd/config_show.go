package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/PolarWolf314/nova/internal/configs"
	"github.com/PolarWolf314/nova/internal/ui"

	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

// shownSettings is the JSON form of config show. Secret material is reduced to whether it is set.
type shownSettings struct {
	SettingsPath   string `json:"settings_path"`
	AuditLogPath   string `json:"audit_log_path"`
	DatabaseURL    string `json:"database_url"`
	ProjectsDir    string `json:"projects_dir"`
	ProjectSegment string `json:"project_segment"`
	Scheme         string `json:"scheme"`
	NonceSet       bool   `json:"nonce_set"`
	PasswordSet    bool   `json:"password_set"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the settings in effect",
	Long: `Displays the nova settings after applying environment overrides.

The database URL is shown with its password removed, and the nonce and
reference ciphertext are only reported as set or not set.

Examples:
  nova config show
  nova config show --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config show command")

		settings, err := loadSettings(ConfigLogger)
		if err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to load settings: %v", err)
		}

		shown := shownSettings{
			SettingsPath:   configs.NovaPaths.SettingsPath,
			AuditLogPath:   configs.NovaPaths.AuditLogPath,
			DatabaseURL:    redactURL(settings.Database.URL),
			ProjectsDir:    settings.Vault.ProjectsDir,
			ProjectSegment: settings.Vault.ProjectSegment,
			Scheme:         settings.Vault.Scheme,
			NonceSet:       settings.Vault.Nonce != "",
			PasswordSet:    settings.Vault.ReferenceCiphertext != "",
		}

		if configShowJSON {
			output, err := json.MarshalIndent(shown, "", "  ")
			if err != nil {
				return ConfigLogger.ErrorfAndReturn("Failed to marshal settings to JSON: %v", err)
			}
			fmt.Println(string(output))
			return nil
		}

		fmt.Println(ui.Info.Sprint("Settings") + " (" + ui.Path.Sprint(shown.SettingsPath) + "):")
		fmt.Println()
		fmt.Printf("  %-16s %s\n", "Database URL:", valueOrUnset(shown.DatabaseURL))
		fmt.Printf("  %-16s %s\n", "Projects dir:", ui.Path.Sprint(shown.ProjectsDir))
		fmt.Printf("  %-16s %s\n", "Project segment:", ui.Highlight.Sprint(shown.ProjectSegment))
		fmt.Printf("  %-16s %s\n", "Scheme:", ui.Highlight.Sprint(shown.Scheme))
		fmt.Printf("  %-16s %s\n", "Nonce:", setOrUnset(shown.NonceSet))
		fmt.Printf("  %-16s %s\n", "Password:", setOrUnset(shown.PasswordSet))
		fmt.Printf("  %-16s %s\n", "Audit log:", ui.Path.Sprint(shown.AuditLogPath))

		if !shown.PasswordSet {
			fmt.Println()
			fmt.Println(ui.HintLine("Run " + ui.Code.Sprint("nova config init") + " to set the vault password"))
		}
		return nil
	},
}

func valueOrUnset(v string) string {
	if v == "" {
		return ui.Muted.Sprint("not set")
	}
	return ui.Success.Sprint(v)
}

func setOrUnset(set bool) string {
	if set {
		return ui.Success.Sprint("set")
	}
	return ui.Muted.Sprint("not set")
}

// redactURL hides the password of a database URL.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}

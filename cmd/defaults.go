package cmd

import (
	"fmt"
	"os"

	"cbstart/config"
	"cbstart/config/settings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	defaultsQuickStart   bool
	defaultsAPIKey       string
	defaultsModel        string
	defaultsAlwaysResume bool
)

func init() {
	rootCmd.AddCommand(defaultsCmd)
	defaultsCmd.Flags().BoolVar(&defaultsQuickStart, "quick-start", false, "Enable or disable non-interactive quick start")
	defaultsCmd.Flags().StringVar(&defaultsAPIKey, "api-key", "", "Default API key name for quick start")
	defaultsCmd.Flags().StringVar(&defaultsModel, "model", "", "Default model id for quick start")
	defaultsCmd.Flags().BoolVar(&defaultsAlwaysResume, "always-resume", false, "Append --resume to every constructed launch")
}

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Update quick-start defaults in settings.json",
	Long: `Update quick-start defaults in settings.json.

Only the flags you pass are written; every other field in settings.json is
preserved byte for byte. A backup of the previous content is kept next to
the file.

Examples:
  cbstart defaults --quick-start --api-key work --model gpt-4
  cbstart defaults --always-resume=false`,
	Run: func(cmd *cobra.Command, args []string) {
		configManager, err := config.NewManager()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var upd settings.Update
		if cmd.Flags().Changed("quick-start") {
			upd.QuickStart = &defaultsQuickStart
		}
		if cmd.Flags().Changed("api-key") {
			// Warn on a dangling reference but still write it: the launch
			// path degrades to interactive mode when it cannot resolve
			if keys, err := configManager.LoadAPIKeys(); err == nil {
				if config.FindAPIKey(keys, defaultsAPIKey) == nil {
					fmt.Fprintf(os.Stderr, "⚠️  '%s' 不匹配任何API密钥条目\n", defaultsAPIKey)
				}
			}
			upd.DefaultAPIKey = &defaultsAPIKey
		}
		if cmd.Flags().Changed("model") {
			upd.DefaultModel = &defaultsModel
		}
		if cmd.Flags().Changed("always-resume") {
			upd.AlwaysResume = &defaultsAlwaysResume
		}

		if upd.IsEmpty() {
			fmt.Fprintln(os.Stderr, "Nothing to update; pass at least one flag")
			os.Exit(1)
		}

		if err := configManager.UpdateSettings(upd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
		fmt.Fprintln(os.Stderr, successStyle.Render("✓ Settings updated: "+configManager.SettingsFilePath()))
	},
}

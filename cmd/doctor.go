package cmd

import (
	"fmt"
	"os"

	"cbstart/config"
	"cbstart/config/models"
	"cbstart/config/validation"
	"cbstart/internal/delegate"
	"cbstart/internal/selector"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check launcher prerequisites",
	Long:  "Check that the delegate binary, the fuzzy finder and all config files are in place and well-formed",
	Run: func(cmd *cobra.Command, args []string) {
		failed := false

		// Delegate binary
		if path, err := delegate.LookPath(); err == nil {
			fmt.Println(okStyle.Render(fmt.Sprintf("✓ %s: %s", delegate.Binary, path)))
		} else {
			failed = true
			fmt.Println(failStyle.Render(fmt.Sprintf("✗ %s 未安装", delegate.Binary)))
			fmt.Println("  💡 npm install -g claude-bridge")
		}

		// Fuzzy finder is optional; its absence only changes the strategy
		if selector.HasFzf() {
			fmt.Println(okStyle.Render("✓ fzf: available"))
		} else {
			fmt.Println(warnStyle.Render("⚠ fzf: not installed, built-in picker will be used"))
		}

		configManager, err := config.NewManager()
		if err != nil {
			fmt.Println(failStyle.Render(fmt.Sprintf("✗ %v", err)))
			os.Exit(1)
		}

		fmt.Printf("\nConfig directory: %s\n", configManager.ConfigDir())

		if err := configManager.Validate(); err != nil {
			failed = true
			fmt.Println(failStyle.Render(fmt.Sprintf("✗ %v", err)))
		} else {
			validator := validation.NewValidator()

			keys, err := configManager.LoadAPIKeys()
			keysLoaded := err == nil
			switch {
			case err != nil:
				failed = true
				fmt.Println(failStyle.Render(fmt.Sprintf("✗ %v", err)))
			case len(keys) == 0:
				fmt.Println(warnStyle.Render("⚠ config.json: no API keys configured"))
			default:
				if err := validator.ValidateAPIKeys(keys); err != nil {
					failed = true
					fmt.Println(failStyle.Render(fmt.Sprintf("✗ config.json: %v", err)))
				} else {
					fmt.Println(okStyle.Render(fmt.Sprintf("✓ config.json: %d API key(s)", len(keys))))
				}
			}

			modelList, err := configManager.LoadModels()
			switch {
			case err != nil:
				failed = true
				fmt.Println(failStyle.Render(fmt.Sprintf("✗ %v", err)))
			case len(modelList) == 0:
				fmt.Println(warnStyle.Render("⚠ models.json: no models configured"))
			default:
				if err := validator.ValidateModels(modelList); err != nil {
					failed = true
					fmt.Println(failStyle.Render(fmt.Sprintf("✗ models.json: %v", err)))
				} else {
					fmt.Println(okStyle.Render(fmt.Sprintf("✓ models.json: %d model(s)", len(modelList))))
				}
			}

			settings, err := configManager.LoadSettings()
			if err != nil {
				failed = true
				fmt.Println(failStyle.Render(fmt.Sprintf("✗ %v", err)))
			} else {
				fmt.Println(okStyle.Render("✓ settings.json: valid"))

				// A broken default is not fatal: launch falls back to interactive selection
				if danglingDefault(keys, keysLoaded, settings.DefaultAPIKey) {
					fmt.Println(warnStyle.Render(fmt.Sprintf("⚠ defaultApiKey '%s' does not match any entry", settings.DefaultAPIKey)))
				}
			}
		}

		if failed {
			os.Exit(1)
		}
	},
}

// danglingDefault reports whether defaultApiKey names a key known to be
// absent. When the key file itself failed to load nothing is known, so it
// never warns.
func danglingDefault(keys []models.APIKey, keysLoaded bool, name string) bool {
	return keysLoaded && name != "" && config.FindAPIKey(keys, name) == nil
}

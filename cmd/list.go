package cmd

import (
	"fmt"
	"os"

	"cbstart/config"
	"cbstart/internal/utils"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured API keys and models",
	Long:  "List all API key entries (with masked secrets) and the available models",
	Run: func(cmd *cobra.Command, args []string) {
		configManager, err := config.NewManager()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		keys, err := configManager.LoadAPIKeys()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		modelList, err := configManager.LoadModels()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		settings, _ := configManager.LoadSettings()

		if len(keys) == 0 {
			fmt.Println("No API keys configured")
		} else {
			fmt.Println("Available API keys:")
			for _, key := range keys {
				// Mark the configured default with *
				marker := " "
				if key.Name == settings.DefaultAPIKey {
					marker = "*"
				}

				desc := key.Description
				if desc == "" {
					desc = "-"
				}
				fmt.Printf("%s %s: %s (URL: %s, Key: %s)\n",
					marker, key.Name, desc, key.BaseURL, utils.MaskAPIKey(key.Key))
			}
		}

		fmt.Println()
		if len(modelList) == 0 {
			fmt.Println("No models configured")
		} else {
			fmt.Println("Available models:")
			for _, m := range modelList {
				marker := " "
				if m.ID == settings.DefaultModel {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, m.ID)
			}
		}

		if settings.DefaultAPIKey != "" || settings.DefaultModel != "" {
			fmt.Printf("\n* indicates the configured default\n")
		}
	},
}

package cmd

import (
	"github.com/spf13/cobra"
)

// Version information
var (
	version string
	commit  string
	date    string
)

// SetVersionInfo sets the version information
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

var (
	forcePrompt bool
	resumeFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "cbstart",
	Short: "claude-bridge 启动器",
	Long: `An interactive launcher for the claude-bridge command.

Reads API keys, models and defaults from the config directory, resolves a
key/model pair (quick start or interactive selection) and runs claude-bridge
with the result. Without arguments it quick-starts when configured, and
falls back to interactive selection otherwise.`,
	Run: runLaunch,
}

func init() {
	rootCmd.Flags().BoolVarP(&forcePrompt, "prompt", "p", false, "Force interactive selection even when quick start is configured")
	rootCmd.Flags().BoolVar(&resumeFlag, "resume", false, "Skip selection and resume the previous claude-bridge session")
}

// Execute executes the root command
func Execute() error {
	rootCmd.Version = version

	rootCmd.SetVersionTemplate(`cbstart {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)

	return rootCmd.Execute()
}

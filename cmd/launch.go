package cmd

import (
	"fmt"
	"os"

	"cbstart/config"
	"cbstart/internal/launcher"
	"cbstart/internal/selector"
	"cbstart/internal/tui"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

// runLaunch is the root command action: resolve a key/model pair and hand
// over to the delegate. The delegate's exit status becomes our own.
func runLaunch(cmd *cobra.Command, args []string) {
	configManager, err := config.NewManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("✗ %v", err)))
		os.Exit(1)
	}

	l := launcher.New(configManager, chooseSelector(), os.Stderr)

	code, err := l.Run(launcher.Options{
		Prompt: forcePrompt,
		Resume: resumeFlag,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("✗ %v", err)))
	}
	os.Exit(code)
}

// chooseSelector probes the environment and picks a selection strategy:
// the external fuzzy finder when installed and stdin is a terminal, the
// built-in picker on a terminal without it, and the numbered prompt as the
// non-interactive fallback.
func chooseSelector() selector.Selector {
	if selector.IsInteractiveTerminal() {
		if selector.HasFzf() {
			return selector.NewFzf()
		}
		return tui.NewPicker()
	}
	return selector.NewNumbered(os.Stdin, os.Stderr)
}

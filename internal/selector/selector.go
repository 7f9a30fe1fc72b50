// Package selector provides the interactive selection strategies used to
// pick an API key or a model from a list of candidates.
package selector

import (
	"errors"
	"os"
	"strings"
)

// Sentinel errors for selection failures.
var (
	// ErrInvalidSelection indicates non-numeric or out-of-range input
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrNoChoices indicates the candidate list was empty
	ErrNoChoices = errors.New("no choices available")
	// ErrNameLookup indicates a chosen name did not match any entry
	ErrNameLookup = errors.New("name lookup failed")
)

// Option is a single selectable candidate
type Option struct {
	Name        string
	Description string
}

// Selector presents options and returns the chosen one. A nil result with
// a nil error means the user cancelled; that is a normal empty result, not
// an error.
type Selector interface {
	Pick(prompt string, opts []Option) (*Option, error)
}

// Line renders an option the way the fuzzy finder displays it
func (o Option) Line() string {
	if o.Description == "" {
		return o.Name
	}
	return o.Name + " - " + o.Description
}

// SplitLine recovers the option name from a rendered line: the prefix
// before the first " - " separator.
func SplitLine(line string) string {
	name, _, _ := strings.Cut(line, " - ")
	return name
}

// FindByName returns the first option matching name, nil when absent
func FindByName(opts []Option, name string) *Option {
	for i := range opts {
		if opts[i].Name == name {
			return &opts[i]
		}
	}
	return nil
}

// IsInteractiveTerminal checks if the current Stdin is an interactive terminal
func IsInteractiveTerminal() bool {
	// Check for CI/non-interactive environments first
	if isCIEnvironment() {
		return false
	}

	// TERM should be set and not "dumb"
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return false
	}

	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// isCIEnvironment checks if we're running in a CI/CD environment
func isCIEnvironment() bool {
	ciVars := []string{
		"CI",
		"CONTINUOUS_INTEGRATION",
		"BUILD_NUMBER",
		"RUN_ID",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_HOME",
		"TRAVIS",
		"CIRCLECI",
		"TEAMCITY_VERSION",
	}

	for _, envVar := range ciVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}
	return false
}

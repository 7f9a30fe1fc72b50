// Package delegate builds and runs the external claude-bridge invocation.
package delegate

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"cbstart/config/models"
)

// Binary is the delegate command this launcher exists to invoke
const Binary = "claude-bridge"

// ErrNotFound indicates the delegate binary is not resolvable on PATH
var ErrNotFound = errors.New("claude-bridge not found on PATH")

// LookPath verifies the delegate binary is resolvable on the execution path
func LookPath() (string, error) {
	path, err := exec.LookPath(Binary)
	if err != nil {
		return "", ErrNotFound
	}
	return path, nil
}

// BuildArgs constructs the delegate argument vector for a resolved API key
// and model. The --resume flag is appended only when requested.
func BuildArgs(key models.APIKey, modelID string, resume bool) []string {
	args := []string{
		"openai",
		modelID,
		"--baseURL", key.BaseURL,
		"--apiKey", key.Key,
	}
	if resume {
		args = append(args, "--resume")
	}
	return args
}

// ResumeArgs constructs the argument vector for the explicit resume mode,
// which bypasses all key and model resolution.
func ResumeArgs() []string {
	return []string{"--resume"}
}

// Run executes the delegate in the foreground with inherited standard
// streams and returns the child's real exit code.
func Run(args []string) (int, error) {
	cmd := exec.Command(Binary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Child ran and failed; forward its status verbatim
			return exitErr.ExitCode(), nil
		}
		return 1, fmt.Errorf("failed to run %s: %w", Binary, err)
	}
	return 0, nil
}

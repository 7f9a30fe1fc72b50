package selector

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// FzfBinary is the external fuzzy finder probed for on PATH
const FzfBinary = "fzf"

// HasFzf reports whether the external fuzzy finder is available
func HasFzf() bool {
	_, err := exec.LookPath(FzfBinary)
	return err == nil
}

// Fzf pipes rendered option lines to the external fuzzy finder and reads
// the chosen line back. Cancellation yields a nil option.
type Fzf struct {
	binary string
}

// NewFzf creates an Fzf selector
func NewFzf() *Fzf {
	return &Fzf{binary: FzfBinary}
}

// Pick runs the fuzzy finder over the option lines. The finder draws its
// UI on the controlling terminal, so only stdout is captured here.
func (f *Fzf) Pick(prompt string, opts []Option) (*Option, error) {
	if len(opts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoChoices, prompt)
	}

	lines := make([]string, 0, len(opts))
	for _, opt := range opts {
		lines = append(lines, opt.Line())
	}

	var out bytes.Buffer
	cmd := exec.Command(f.binary, "--prompt", prompt+"> ")
	cmd.Stdin = strings.NewReader(strings.Join(lines, "\n"))
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		// fzf exits non-zero on cancel (130) and on empty match (1);
		// both are a normal empty result
		if _, ok := err.(*exec.ExitError); ok {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to run %s: %w", f.binary, err)
	}

	chosen := strings.TrimSpace(out.String())
	if chosen == "" {
		return nil, nil
	}

	// Recover the full record by name from the chosen line's prefix
	name := SplitLine(chosen)
	if opt := FindByName(opts, name); opt != nil {
		return opt, nil
	}
	return nil, fmt.Errorf("%w: '%s' does not match any entry", ErrNameLookup, name)
}

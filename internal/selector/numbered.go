package selector

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Numbered is the fallback strategy: a 1-based numbered list with a single
// line of input read from the terminal.
type Numbered struct {
	in  io.Reader
	out io.Writer
}

// NewNumbered creates a Numbered selector reading from in and printing the
// list and prompt to out.
func NewNumbered(in io.Reader, out io.Writer) *Numbered {
	return &Numbered{in: in, out: out}
}

// Pick presents a numbered list and reads one selection. Out-of-range or
// non-numeric input is an error, not a silent pass-through.
func (n *Numbered) Pick(prompt string, opts []Option) (*Option, error) {
	if len(opts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoChoices, prompt)
	}

	fmt.Fprintf(n.out, "📋 %s:\n", prompt)
	for i, opt := range opts {
		fmt.Fprintf(n.out, "  %2d. %s\n", i+1, opt.Line())
	}
	fmt.Fprintf(n.out, "\nSelect (1-%d): ", len(opts))

	reader := bufio.NewReader(n.in)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return nil, fmt.Errorf("failed to read user input: %w", err)
	}
	input = strings.TrimSpace(input)

	index, err := strconv.Atoi(input)
	if err != nil {
		return nil, fmt.Errorf("%w: please enter a number between 1 and %d", ErrInvalidSelection, len(opts))
	}
	if index < 1 || index > len(opts) {
		return nil, fmt.Errorf("%w: please enter a number between 1 and %d", ErrInvalidSelection, len(opts))
	}

	return &opts[index-1], nil
}

// Package tui provides the built-in full-screen picker used when stdin is
// a terminal but no external fuzzy finder is installed.
package tui

import (
	"fmt"
	"os"
	"strings"

	"cbstart/internal/selector"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles for the picker
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

// Picker is the built-in selection strategy backed by a bubbletea program
type Picker struct{}

// NewPicker creates a Picker
func NewPicker() *Picker {
	return &Picker{}
}

// Pick runs the full-screen picker and returns the chosen option.
// Cancellation (esc / ctrl+c) yields a nil option, matching the external
// fuzzy finder's contract.
func (p *Picker) Pick(prompt string, opts []selector.Option) (*selector.Option, error) {
	if len(opts) == 0 {
		return nil, fmt.Errorf("%w: %s", selector.ErrNoChoices, prompt)
	}

	m := newModel(prompt, opts)
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(os.Stderr))

	final, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("picker failed: %w", err)
	}

	fm, ok := final.(model)
	if !ok || fm.cancelled || fm.chosen < 0 {
		return nil, nil
	}
	return &opts[fm.chosen], nil
}

// model is the bubbletea state for the picker
type model struct {
	prompt  string
	options []selector.Option
	lines   []string // pre-rendered option lines

	filter   textinput.Model
	filtered []int // indices into options matching the filter

	cursor       int
	scrollOffset int

	chosen    int // index into options, -1 until selected
	cancelled bool

	width  int
	height int
}

func newModel(prompt string, opts []selector.Option) model {
	ti := textinput.New()
	ti.Placeholder = "输入以过滤..."
	ti.Prompt = "/ "
	ti.Focus()

	lines := make([]string, len(opts))
	filtered := make([]int, len(opts))
	for i, opt := range opts {
		lines[i] = opt.Line()
		filtered[i] = i
	}

	return model{
		prompt:   prompt,
		options:  opts,
		lines:    lines,
		filter:   ti,
		filtered: filtered,
		chosen:   -1,
		width:    80,
		height:   24,
	}
}

// Init initializes the model
func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.adjustScrollOffset()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if len(m.filtered) > 0 {
				m.chosen = m.filtered[m.cursor]
				return m, tea.Quit
			}
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			m.adjustScrollOffset()
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			m.adjustScrollOffset()
			return m, nil
		}
	}

	// Everything else feeds the filter input
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter recomputes the filtered index list and clamps the cursor
func (m *model) applyFilter() {
	query := m.filter.Value()
	m.filtered = m.filtered[:0]
	for i, line := range m.lines {
		if matchesFilter(line, query) {
			m.filtered = append(m.filtered, i)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.adjustScrollOffset()
}

// matchesFilter reports whether every rune of query appears in line in
// order, case-insensitively. Same contract as the external fuzzy finder.
func matchesFilter(line, query string) bool {
	if query == "" {
		return true
	}
	line = strings.ToLower(line)
	query = strings.ToLower(query)
	for _, r := range query {
		idx := strings.IndexRune(line, r)
		if idx < 0 {
			return false
		}
		line = line[idx+len(string(r)):]
	}
	return true
}

// visibleListHeight returns how many option lines fit on screen
func (m model) visibleListHeight() int {
	// title + separator + filter + blank + footer
	reserved := 6
	h := m.height - reserved
	if h < 1 {
		h = 1
	}
	return h
}

// adjustScrollOffset keeps the cursor inside the visible window
func (m *model) adjustScrollOffset() {
	visible := m.visibleListHeight()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// View renders the picker
func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.prompt))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.effectiveWidth(40))))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("无匹配项"))
		b.WriteString("\n")
	} else {
		visible := m.visibleListHeight()
		start := m.scrollOffset
		end := start + visible
		if end > len(m.filtered) {
			end = len(m.filtered)
		}

		if start > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ↑ 还有 %d 项...", start)))
			b.WriteString("\n")
		}

		for i := start; i < end; i++ {
			line := m.lines[m.filtered[i]]
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("➤ " + line))
			} else {
				b.WriteString(normalStyle.Render("  " + line))
			}
			b.WriteString("\n")
		}

		if end < len(m.filtered) {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ↓ 还有 %d 项...", len(m.filtered)-end)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ 选择 · Enter 确认 · Esc 取消"))

	return b.String()
}

// effectiveWidth returns the rendering width with a minimum and maximum
func (m model) effectiveWidth(defaultWidth int) int {
	if m.width <= 0 {
		return defaultWidth
	}
	maxWidth := 80
	if m.width < maxWidth {
		return m.width
	}
	return maxWidth
}

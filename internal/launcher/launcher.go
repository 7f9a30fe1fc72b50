// Package launcher orchestrates config resolution and delegate invocation.
package launcher

import (
	"errors"
	"fmt"
	"io"

	"cbstart/config"
	"cbstart/config/models"
	"cbstart/internal/delegate"
	"cbstart/internal/selector"

	"github.com/charmbracelet/lipgloss"
)

// ErrNoSelection indicates the user cancelled a prompt or left it empty
var ErrNoSelection = errors.New("no selection")

var successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

// Options controls a single launch
type Options struct {
	Prompt bool // force interactive selection even when quick start is configured
	Resume bool // bypass all resolution and resume the prior delegate session
}

// Launcher resolves an API key and model and runs the delegate. All
// dependencies are passed in at construction; there is no global state.
type Launcher struct {
	cfg *config.Manager
	sel selector.Selector
	out io.Writer
}

// New creates a Launcher
func New(cfg *config.Manager, sel selector.Selector, out io.Writer) *Launcher {
	return &Launcher{cfg: cfg, sel: sel, out: out}
}

// Run performs one launch and returns the process exit code. The delegate's
// real exit status is forwarded in every branch, including resume.
func (l *Launcher) Run(opts Options) (int, error) {
	// Pre-flight: the delegate must be resolvable before any config work
	if _, err := delegate.LookPath(); err != nil {
		return 1, fmt.Errorf("%w\n💡 请先安装 claude-bridge: npm install -g claude-bridge", err)
	}

	if opts.Resume {
		return delegate.Run(delegate.ResumeArgs())
	}

	if err := l.cfg.Validate(); err != nil {
		return 1, err
	}

	keys, err := l.cfg.LoadAPIKeys()
	if err != nil {
		return 1, err
	}
	modelList, err := l.cfg.LoadModels()
	if err != nil {
		return 1, err
	}
	settings, err := l.cfg.LoadSettings()
	if err != nil {
		return 1, err
	}

	var key *models.APIKey
	var modelID string

	if !opts.Prompt {
		key, modelID = ResolveQuickStart(settings, keys)
	}

	if key == nil {
		key, err = l.SelectAPIKey(keys)
		if err != nil {
			return 1, err
		}

		model, err := l.SelectModel(modelList)
		if err != nil {
			return 1, err
		}
		modelID = model.ID
	}

	fmt.Fprintln(l.out, successStyle.Render(fmt.Sprintf("✓ 使用配置: %s (模型: %s)", key.Name, modelID)))

	return delegate.Run(delegate.BuildArgs(*key, modelID, settings.AlwaysResume))
}

// ResolveQuickStart returns the configured default pair, or nil when quick
// start does not apply. A missing default reference is not an error; it
// degrades to interactive mode. The model id is used verbatim, unvalidated.
func ResolveQuickStart(settings models.Settings, keys []models.APIKey) (*models.APIKey, string) {
	if !settings.QuickStart {
		return nil, ""
	}
	if settings.DefaultAPIKey == "" || settings.DefaultModel == "" {
		return nil, ""
	}
	key := config.FindAPIKey(keys, settings.DefaultAPIKey)
	if key == nil {
		return nil, ""
	}
	return key, settings.DefaultModel
}

// SelectAPIKey prompts for an API key entry
func (l *Launcher) SelectAPIKey(keys []models.APIKey) (*models.APIKey, error) {
	opts := make([]selector.Option, 0, len(keys))
	for _, k := range keys {
		opts = append(opts, selector.Option{Name: k.Name, Description: k.Description})
	}

	chosen, err := l.sel.Pick("Select API key", opts)
	if err != nil {
		return nil, err
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: API key", ErrNoSelection)
	}

	key := config.FindAPIKey(keys, chosen.Name)
	if key == nil {
		return nil, fmt.Errorf("%w: '%s' does not match any entry", selector.ErrNameLookup, chosen.Name)
	}
	return key, nil
}

// SelectModel prompts for a model entry. Model entries have no description,
// so the rendered lines are bare ids.
func (l *Launcher) SelectModel(modelList []models.Model) (*models.Model, error) {
	opts := make([]selector.Option, 0, len(modelList))
	for _, m := range modelList {
		opts = append(opts, selector.Option{Name: m.ID})
	}

	chosen, err := l.sel.Pick("Select model", opts)
	if err != nil {
		return nil, err
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: model", ErrNoSelection)
	}

	for i := range modelList {
		if modelList[i].ID == chosen.Name {
			return &modelList[i], nil
		}
	}
	return nil, fmt.Errorf("%w: '%s' does not match any entry", selector.ErrNameLookup, chosen.Name)
}

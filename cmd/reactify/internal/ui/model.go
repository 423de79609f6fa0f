package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/recera/reactify/cmd/reactify/internal/config"
)

// Step represents the current step of the init wizard
type Step int

const (
	StepFields Step = iota
	StepOptions
	StepSummary
	StepDone
)

// Extensions are the output extensions offered by the wizard.
var Extensions = []string{".jsx", ".tsx", ".js"}

const (
	fieldSrcDir = iota
	fieldOutDir
	fieldPort
)

const (
	optionExtension = iota
	optionFormat
	optionShortFragments
	optionCache
	optionCount
)

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Enter key.Binding
	Space key.Binding
	Back  key.Binding
	Quit  key.Binding
	Help  key.Binding
}

// DefaultKeyMap holds the wizard's key bindings. Letters are left to the
// text fields, so navigation uses arrows and tab only.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "shift+tab"),
		key.WithHelp("↑/shift+tab", "previous"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "tab"),
		key.WithHelp("↓/tab", "next"),
	),
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "previous value"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next value"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Space: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

func (k KeyMap) bindings() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Space, k.Enter, k.Back, k.Help, k.Quit}
}

// Model is the init wizard state
type Model struct {
	width  int
	height int

	step Step
	base *config.Config

	// Directory and port fields
	inputs []textinput.Model
	focus  int

	// Option toggles
	option         int
	extension      int
	format         bool
	shortFragments bool
	cache          bool

	showHelp bool
	quitting bool
	err      string
}

// NewModel creates a wizard prefilled from base
func NewModel(base *config.Config) Model {
	if base == nil {
		base = config.DefaultConfig()
	}

	srcInput := textinput.New()
	srcInput.Placeholder = "src"
	srcInput.CharLimit = 200
	srcInput.Width = 40
	srcInput.SetValue(base.SrcDir)
	srcInput.Focus()

	outInput := textinput.New()
	outInput.Placeholder = "dist"
	outInput.CharLimit = 200
	outInput.Width = 40
	outInput.SetValue(base.OutDir)

	portInput := textinput.New()
	portInput.Placeholder = "5180"
	portInput.CharLimit = 5
	portInput.Width = 10
	port := config.DefaultConfig().Dev.Port
	if base.Dev != nil {
		port = base.Dev.Port
	}
	portInput.SetValue(strconv.Itoa(port))

	extension := 0
	for i, ext := range Extensions {
		if ext == base.Extension {
			extension = i
		}
	}

	return Model{
		step:           StepFields,
		base:           base,
		inputs:         []textinput.Model{srcInput, outInput, portInput},
		extension:      extension,
		format:         base.FormatEnabled(),
		shortFragments: base.ShortFragments,
		cache:          base.Cache == nil || base.Cache.Enabled,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, DefaultKeyMap.Quit) {
			m.quitting = true
			return m, tea.Quit
		}

		// "?" is ordinary input while a text field has focus
		if m.step != StepFields && key.Matches(msg, DefaultKeyMap.Help) {
			m.showHelp = !m.showHelp
			return m, nil
		}

		switch m.step {
		case StepFields:
			if handled, cmd := m.handleFieldKeys(msg); handled {
				return m, cmd
			}

		case StepOptions:
			return m, m.handleOptionKeys(msg)

		case StepSummary:
			switch {
			case key.Matches(msg, DefaultKeyMap.Enter):
				m.step = StepDone
				return m, tea.Quit
			case key.Matches(msg, DefaultKeyMap.Back):
				m.step = StepOptions
			}
			return m, nil
		}
	}

	// Update the focused text input
	if m.step == StepFields {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleFieldKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Down):
		return true, m.focusField((m.focus + 1) % len(m.inputs))

	case key.Matches(msg, DefaultKeyMap.Up):
		return true, m.focusField((m.focus + len(m.inputs) - 1) % len(m.inputs))

	case key.Matches(msg, DefaultKeyMap.Enter):
		if err := m.validateFields(); err != "" {
			m.err = err
			return true, nil
		}
		m.err = ""
		m.inputs[m.focus].Blur()
		m.step = StepOptions
		return true, nil
	}
	return false, nil
}

func (m *Model) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

func (m *Model) validateFields() string {
	src := strings.TrimSpace(m.inputs[fieldSrcDir].Value())
	out := strings.TrimSpace(m.inputs[fieldOutDir].Value())

	switch {
	case src == "":
		return "Source directory must not be empty."
	case out == "":
		return "Output directory must not be empty."
	case src == out:
		return "Output directory must differ from the source directory."
	}

	port, err := strconv.Atoi(m.inputs[fieldPort].Value())
	if err != nil || port < 1 || port > 65535 {
		return "Dev server port must be a number between 1 and 65535."
	}
	return ""
}

func (m *Model) handleOptionKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.option > 0 {
			m.option--
		}

	case key.Matches(msg, DefaultKeyMap.Down):
		if m.option < optionCount-1 {
			m.option++
		}

	case key.Matches(msg, DefaultKeyMap.Space, DefaultKeyMap.Right):
		m.change(1)

	case key.Matches(msg, DefaultKeyMap.Left):
		m.change(-1)

	case key.Matches(msg, DefaultKeyMap.Enter):
		m.step = StepSummary

	case key.Matches(msg, DefaultKeyMap.Back):
		m.step = StepFields
		return m.inputs[m.focus].Focus()
	}
	return nil
}

func (m *Model) change(delta int) {
	switch m.option {
	case optionExtension:
		m.extension = (m.extension + delta + len(Extensions)) % len(Extensions)
	case optionFormat:
		m.format = !m.format
	case optionShortFragments:
		m.shortFragments = !m.shortFragments
	case optionCache:
		m.cache = !m.cache
	}
}

// View renders the UI
func (m Model) View() string {
	if m.quitting || m.step == StepDone {
		return ""
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var content string
	switch m.step {
	case StepFields:
		content = m.renderFields()
	case StepOptions:
		content = m.renderOptions()
	case StepSummary:
		content = m.renderSummary()
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(content + "\n" + m.renderFooter())
}

// Done reports whether the wizard was confirmed.
func (m Model) Done() bool {
	return m.step == StepDone
}

// Config returns the configuration chosen so far
func (m Model) Config() *config.Config {
	cfg := *m.base

	cfg.SrcDir = strings.TrimSpace(m.inputs[fieldSrcDir].Value())
	cfg.OutDir = strings.TrimSpace(m.inputs[fieldOutDir].Value())
	cfg.Extension = Extensions[m.extension]
	format := m.format
	cfg.Format = &format
	cfg.ShortFragments = m.shortFragments

	cacheCfg := config.DefaultConfig().Cache
	if m.base.Cache != nil {
		c := *m.base.Cache
		cacheCfg = &c
	}
	cacheCfg.Enabled = m.cache
	cfg.Cache = cacheCfg

	dev := *config.DefaultConfig().Dev
	if m.base.Dev != nil {
		dev = *m.base.Dev
	}
	if port, err := strconv.Atoi(m.inputs[fieldPort].Value()); err == nil {
		dev.Port = port
	}
	cfg.Dev = &dev

	return &cfg
}

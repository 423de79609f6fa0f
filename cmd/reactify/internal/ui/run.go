package ui

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/recera/reactify/cmd/reactify/internal/config"
)

// ErrCancelled is returned when the wizard is quit before confirming.
var ErrCancelled = errors.New("init cancelled")

// RunInit starts the interactive init wizard prefilled from base and returns
// the confirmed configuration.
func RunInit(base *config.Config) (*config.Config, error) {
	if !IsTerminal() {
		return nil, fmt.Errorf("not running in a terminal, use --plain")
	}

	p := tea.NewProgram(NewModel(base), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}

	m := finalModel.(Model)
	if !m.Done() {
		return nil, ErrCancelled
	}
	return m.Config(), nil
}

// IsTerminal checks if we're running in a terminal
func IsTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

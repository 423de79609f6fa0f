package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions
var (
	// Colors
	primaryColor   = lipgloss.Color("#61dafb") // React cyan
	secondaryColor = lipgloss.Color("#64748b") // Gray
	successColor   = lipgloss.Color("#10b981") // Green
	warningColor   = lipgloss.Color("#f59e0b") // Yellow
	errorColor     = lipgloss.Color("#ef4444") // Red
	mutedColor     = lipgloss.Color("#94a3b8") // Muted gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	normalStyle = lipgloss.NewStyle()

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)

// Summary counts the outcome of one build.
type Summary struct {
	Compiled int
	Cached   int
	Failed   int
	Written  int
	Elapsed  time.Duration
}

// RenderSummary renders the closing box of a build.
func RenderSummary(s Summary) string {
	status := successStyle.Render("✅ Build succeeded")
	if s.Failed > 0 {
		status = errorStyle.Render("❌ Build failed")
	}

	rows := []string{
		status,
		"",
		fmt.Sprintf("Compiled:  %s", normalStyle.Render(fmt.Sprint(s.Compiled))),
		fmt.Sprintf("Cached:    %s", mutedStyle.Render(fmt.Sprint(s.Cached))),
		fmt.Sprintf("Written:   %s", normalStyle.Render(fmt.Sprint(s.Written))),
	}
	if s.Failed > 0 {
		rows = append(rows, fmt.Sprintf("Failed:    %s", errorStyle.Render(fmt.Sprint(s.Failed))))
	}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("Finished in %s", s.Elapsed.Round(time.Millisecond))))

	style := boxStyle
	if s.Failed > 0 {
		style = style.BorderForeground(errorColor)
	}
	return style.Render(strings.Join(rows, "\n"))
}

// RenderFailure renders one failed component.
func RenderFailure(path string, err error) string {
	return errorStyle.Render("✗ "+path) + "\n  " + warningStyle.Render(err.Error())
}

// RenderCompiled renders one compiled component line.
func RenderCompiled(source, output string, cached bool) string {
	line := successStyle.Render("✓ ") + normalStyle.Render(source) + mutedStyle.Render(" → "+output)
	if cached {
		line += mutedStyle.Render(" (cached)")
	}
	return line
}

func (m Model) renderFields() string {
	title := titleStyle.Render("⚛️  Reactify project setup")
	subtitle := subtitleStyle.Render("Where do components live and where should React modules go?")

	labels := []string{"Source directory", "Output directory", "Dev server port"}
	var rows []string
	for i, input := range m.inputs {
		label := fmt.Sprintf("%-18s", labels[i])
		if i == m.focus {
			label = selectedStyle.Render("> " + label)
		} else {
			label = normalStyle.Render("  " + label)
		}
		rows = append(rows, label+" "+input.View())
	}

	content := []string{title, subtitle, strings.Join(rows, "\n")}
	if m.err != "" {
		content = append(content, "", errorStyle.Render(m.err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, content...)
}

func (m Model) renderOptions() string {
	title := titleStyle.Render("⚙️  Compiler options")

	var rows []string
	for i, opt := range m.optionRows() {
		cursor := "  "
		style := normalStyle
		if i == m.option {
			cursor = "> "
			style = selectedStyle
		}
		rows = append(rows, style.Render(cursor+opt))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(rows, "\n"))
}

func (m Model) optionRows() []string {
	return []string{
		fmt.Sprintf("Output extension   ‹ %s ›", Extensions[m.extension]),
		checkbox(m.format) + " Format output",
		checkbox(m.shortFragments) + " Short fragments (<>...</>)",
		checkbox(m.cache) + " Cache compiled outputs",
	}
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func enabled(on bool) string {
	if on {
		return successStyle.Render("Enabled")
	}
	return mutedStyle.Render("Disabled")
}

func (m Model) renderSummary() string {
	title := titleStyle.Render("📋 Configuration Summary")
	cfg := m.Config()

	summary := []string{
		fmt.Sprintf("Source directory:  %s", selectedStyle.Render(cfg.SrcDir)),
		fmt.Sprintf("Output directory:  %s", normalStyle.Render(cfg.OutDir)),
		fmt.Sprintf("Extension:         %s", normalStyle.Render(cfg.Extension)),
		fmt.Sprintf("Formatting:        %s", enabled(cfg.FormatEnabled())),
		fmt.Sprintf("Short fragments:   %s", enabled(cfg.ShortFragments)),
		fmt.Sprintf("Output cache:      %s", enabled(cfg.Cache.Enabled)),
		fmt.Sprintf("Dev server:        %s", normalStyle.Render(cfg.Addr())),
	}

	confirm := selectedStyle.Render("\n✨ Press Enter to write reactify.yaml")
	return lipgloss.JoinVertical(lipgloss.Left, title, boxStyle.Render(strings.Join(summary, "\n")), confirm)
}

func (m Model) renderHelp() string {
	title := titleStyle.Render("⌨️  Keyboard Shortcuts")

	bindings := DefaultKeyMap.bindings()
	var rows []string
	for _, b := range bindings {
		h := b.Help()
		rows = append(rows, fmt.Sprintf("%s  %s", selectedStyle.Render(fmt.Sprintf("%-12s", h.Key)), normalStyle.Render(h.Desc)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, boxStyle.Render(strings.Join(rows, "\n")), mutedStyle.Render("\nPress ? to close help"))
}

func (m Model) renderFooter() string {
	var keys []string

	switch m.step {
	case StepFields:
		keys = []string{"Tab/↑/↓: Field", "Enter: Continue", "Ctrl+C: Quit"}
	case StepOptions:
		keys = []string{"↑/↓: Navigate", "Space/←/→: Change", "Enter: Continue", "Esc: Back", "?: Help"}
	case StepSummary:
		keys = []string{"Enter: Save", "Esc: Back", "?: Help", "Ctrl+C: Quit"}
	}

	return footerStyle.Render(strings.Join(keys, " • "))
}

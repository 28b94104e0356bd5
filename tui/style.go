package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleLog = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleMessage = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	styleStatusLine = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleWinner = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	stylePanelTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindLog lineKind = iota
	kindMessage
	kindStatus
	kindWinner
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[message "):
		return kindMessage
	case strings.HasPrefix(line, "["):
		return kindSystem
	case strings.HasPrefix(line, "» "):
		return kindStatus
	case strings.Contains(line, " wins after "):
		return kindWinner
	case strings.HasPrefix(line, "Unknown command"),
		strings.HasPrefix(line, "Tick how many"),
		strings.HasPrefix(line, "Speed must"):
		return kindError
	default:
		return kindLog
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindMessage:
		return styleMessage.Render(line)
	case kindStatus:
		return styleStatusLine.Render(line)
	case kindWinner:
		return styleWinner.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleLog.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}

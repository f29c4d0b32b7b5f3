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

	styleDirty = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleOutput = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleLabel = lipgloss.NewStyle().
			Bold(true)

	styleTable = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	styleSuccess = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindOutput lineKind = iota
	kindField
	kindTable
	kindSuccess
	kindSystem
	kindError
	kindTrace
)

// errorPrefixes start the lines produced by failed or refused commands.
var errorPrefixes = []string{
	"Error:",
	"Usage:",
	"Unknown ",
	"I don't know how",
	"Attempting to switch",
	"Cost override is negative",
	"You already live",
	"You don't have enough",
}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case hasAnyPrefix(line, errorPrefixes):
		return kindError
	case isTableLine(line):
		return kindTable
	case strings.Contains(line, " is now "), strings.HasPrefix(line, "Residence changed"):
		return kindSuccess
	case isFieldLine(line):
		return kindField
	default:
		return kindOutput
	}
}

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// isTableLine reports whether line is part of a bordered table.
func isTableLine(line string) bool {
	return strings.HasPrefix(line, "┌") || strings.HasPrefix(line, "│") ||
		strings.HasPrefix(line, "├") || strings.HasPrefix(line, "└")
}

// isFieldLine reports whether line looks like "Label: value" with a short
// single-word label.
func isFieldLine(line string) bool {
	label, _, ok := strings.Cut(line, ":")
	return ok && label != "" && len(label) <= 20 && !strings.ContainsAny(label, " =")
}

// styledField renders "Label: value" with the label bold.
func styledField(line string) string {
	label, value, ok := strings.Cut(line, ":")
	if !ok {
		return styleOutput.Render(line)
	}
	return styleLabel.Render(label+":") + styleOutput.Render(value)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}

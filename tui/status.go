package tui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// statusFields returns the values shown on the right of the status bar.
// Fields missing from the save render as "?".
func (m Model) statusFields() (money, health, residence string) {
	s := m.engine.Save
	money, health, residence = "?", "?", "?"
	if v, err := s.Money(); err == nil {
		money = strconv.FormatInt(v, 10)
	}
	if v, err := s.Health(); err == nil {
		health = strconv.FormatFloat(v, 'f', 2, 64)
	}
	if v, err := s.Residence(); err == nil {
		residence = strconv.FormatInt(v, 10)
	}
	return money, health, residence
}

// renderStatusBar produces a full-width inverted status line showing the
// file name, money, health, residence and an unsaved-changes marker.
func (m Model) renderStatusBar() string {
	name := filepath.Base(m.engine.Save.Path)
	if m.engine.Save.Path == "" {
		name = "(unsaved)"
	}

	money, health, residence := m.statusFields()

	left := " " + name
	marker := ""
	if m.engine.Dirty {
		marker = " [modified]"
	}
	right := fmt.Sprintf("$%s | HP %s | Home %s ", money, health, residence)

	// Drop the residence when the bar is too narrow.
	if lipgloss.Width(left)+lipgloss.Width(marker)+lipgloss.Width(right)+2 > m.width {
		right = fmt.Sprintf("$%s | HP %s ", money, health)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(marker) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := styleStatusBar.Render(left) + styleDirty.Render(marker) +
		styleStatusBar.Render(strings.Repeat(" ", gap)+right)
	return bar
}

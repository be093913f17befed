package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// helpBinding represents a key binding with its description.
type helpBinding struct {
	key  string
	desc string
}

// getChatHelpBindings returns help bindings while the chat input has focus.
func getChatHelpBindings() []helpBinding {
	return []helpBinding{
		{"enter", "Send message"},
		{"tab/shift+tab", "Switch panel"},
		{"ctrl+c", "Quit"},
	}
}

// getRemindersHelpBindings returns help bindings for the reminders panel.
func getRemindersHelpBindings() []helpBinding {
	return []helpBinding{
		{"j/k or ↑/↓", "Navigate reminders"},
		{"d", "Delete selected reminder"},
		{"r", "Refresh collections"},
		{"tab/shift+tab", "Switch panel"},
		{"?", "Toggle help"},
		{"q or ctrl+c", "Quit"},
	}
}

// getMemoriesHelpBindings returns help bindings for the memories panel.
func getMemoriesHelpBindings() []helpBinding {
	return []helpBinding{
		{"r", "Refresh collections"},
		{"tab/shift+tab", "Switch panel"},
		{"?", "Toggle help"},
		{"q or ctrl+c", "Quit"},
	}
}

// getHelpBindingsForFocus returns help bindings for the focused panel.
func getHelpBindingsForFocus(area focusArea) []helpBinding {
	switch area {
	case FocusReminders:
		return getRemindersHelpBindings()
	case FocusMemories:
		return getMemoriesHelpBindings()
	default:
		return getChatHelpBindings()
	}
}

// renderHelp renders the help footer for the focused panel.
func renderHelp(area focusArea) string {
	theme := DefaultTheme()
	keyStyle := lipgloss.NewStyle().Foreground(theme.Primary)
	descStyle := lipgloss.NewStyle().Foreground(theme.Muted)

	var b strings.Builder
	for _, binding := range getHelpBindingsForFocus(area) {
		b.WriteString("  ")
		b.WriteString(keyStyle.Render(binding.key))
		b.WriteString("  ")
		b.WriteString(descStyle.Render(binding.desc))
		b.WriteString("\n")
	}
	return b.String()
}

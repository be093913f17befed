package main

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual styling for the nova dashboard.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
}

// DefaultTheme returns the default theme for nova dash.
func DefaultTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("12"),  // Blue
		Secondary: lipgloss.Color("14"),  // Cyan
		Success:   lipgloss.Color("10"),  // Green
		Warning:   lipgloss.Color("11"),  // Yellow
		Error:     lipgloss.Color("9"),   // Red
		Muted:     lipgloss.Color("240"), // Gray
	}
}

// stateColor maps an assistant state to its display color.
func stateColor(theme Theme, state string) lipgloss.Color {
	switch state {
	case "listening":
		return theme.Secondary
	case "thinking":
		return theme.Warning
	case "speaking":
		return theme.Success
	case "reminder":
		return theme.Error
	case "tutor_question", "tutor_feedback":
		return theme.Primary
	default: // idle
		return theme.Muted
	}
}

package tui

import "github.com/charmbracelet/lipgloss"

// Shared TUI styles used across all prompts
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 0, 1, 2)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 0, 0, 2)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 2)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Padding(0, 0, 0, 2)

	checkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	uncheckedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(1, 0, 0, 2)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("86")).
			Padding(0, 1)
)

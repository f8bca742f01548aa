// Package tui provides the live status view for `ralphctl status --watch`,
// plus the lipgloss rendering shared with the plain status command.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("#A78BFA") // Purple
	successColor = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#F87171") // Red
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	completedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	cappedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warningColor)

	cancelledStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

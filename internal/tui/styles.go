package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vaais251/focusflow/internal/lifecycle"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#E8590C")
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#2F9E44")
	colorWarning   = lipgloss.Color("#F08C00")
	colorError     = lipgloss.Color("#E03131")
	colorFg        = lipgloss.Color("#E9ECEF")
	colorSubtle    = lipgloss.Color("#3B3F46")
	colorHighlight = lipgloss.Color("#4DABF7")
)

// Styles
var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Align(lipgloss.Center)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)

// statusStyle colors a derived lifecycle status label.
func statusStyle(s lifecycle.Status) lipgloss.Style {
	switch s {
	case lifecycle.StatusCompleted:
		return successStyle
	case lifecycle.StatusDue:
		return warningStyle
	case lifecycle.StatusBroken:
		return errorStyle
	}
	return highlightStyle
}

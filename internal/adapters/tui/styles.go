package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/stagehand-dev/stagehand/internal/ui/style"
)

var (
	stepPendingStyle = lipgloss.NewStyle().
				Foreground(style.Slate)

	stepRunningStyle = lipgloss.NewStyle().
				Foreground(style.Teal).
				Bold(true)

	stepDoneStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	stepFailedStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Teal).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Teal).
			Foreground(style.White)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Red).
				Foreground(style.White)

	listStyle = lipgloss.NewStyle().
			PaddingRight(2)

	logStyle = lipgloss.NewStyle().
			PaddingLeft(1)
)

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stagehand-dev/stagehand/internal/ui/style"
)

// View renders the step list beside the active step's log pane.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Starting..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.stepList(),
		m.logPane(),
	)
}

func (m *Model) stepList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("STEPS") + "\n\n")

	start := m.ListOffset
	end := min(m.ListOffset+m.ListHeight, len(m.Steps))
	if start > end {
		start = end
	}

	for i := start; i < end; i++ {
		s.WriteString(m.renderStepRow(i, m.Steps[i]) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderStepRow(index int, step *StepNode) string {
	icon := stepIcon(step)
	rowStyle := stepStyle(step)

	cursor := "  "
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if step.Status != StatusDone && step.Status != StatusFailed {
			rowStyle = selectedStyle
		}
	}

	return cursor + rowStyle.Render(icon+" "+step.Name)
}

func stepIcon(step *StepNode) string {
	switch step.Status {
	case StatusRunning:
		return style.Dot
	case StatusDone:
		return style.Check
	case StatusFailed:
		return style.Cross
	default:
		return style.Circle
	}
}

func stepStyle(step *StepNode) lipgloss.Style {
	switch step.Status {
	case StatusRunning:
		return stepRunningStyle
	case StatusDone:
		return stepDoneStyle
	case StatusFailed:
		return stepFailedStyle
	default:
		return stepPendingStyle
	}
}

func (m *Model) logPane() string {
	header := titleStyle.Render("LOGS (waiting)")
	var content string

	if node, ok := m.StepMap[m.ActiveStepName]; ok {
		text := "LOGS: " + m.ActiveStepName + m.paneStatus(node)
		if node.Status == StatusFailed {
			header = failureTitleStyle.Render(text)
		} else {
			header = titleStyle.Render(text)
		}
		content = node.Term.View()
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			content,
		),
	)
}

func (m *Model) paneStatus(step *StepNode) string {
	var state string
	switch step.Status {
	case StatusRunning:
		state = "[Running]"
	case StatusDone:
		state = fmt.Sprintf("[Took %s]", step.Ended.Sub(step.Started).Round(time.Millisecond))
	case StatusFailed:
		state = fmt.Sprintf("[Failed after %s]", step.Ended.Sub(step.Started).Round(time.Millisecond))
	default:
		state = "[Pending]"
	}

	if m.FollowMode {
		return " " + state
	}
	return " " + state + " (manual scroll)"
}

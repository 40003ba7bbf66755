// Package tui renders staging progress as an interactive terminal view
// with a step list beside a live log pane.
package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stagehand-dev/stagehand/internal/ui/output"
)

const (
	stepListWidthRatio = 0.3
	logPaneBorderWidth = 4
)

// StepStatus is the display state of a step.
type StepStatus string

const (
	// StatusPending marks a step waiting its turn.
	StatusPending StepStatus = "Pending"
	// StatusRunning marks the step currently executing.
	StatusRunning StepStatus = "Running"
	// StatusDone marks a step that completed.
	StatusDone StepStatus = "Done"
	// StatusFailed marks a step that ended in error.
	StatusFailed StepStatus = "Failed"
)

// StepNode is one row of the step list.
type StepNode struct {
	Name    string
	Status  StepStatus
	Started time.Time
	Ended   time.Time
	Err     error
	Term    *Vterm
}

// Model is the Bubble Tea model behind the staging view.
type Model struct {
	Steps   []*StepNode
	StepMap map[string]*StepNode // step name -> node
	SpanMap map[string]*StepNode // span ID -> node

	ActiveStepName string
	SelectedIdx    int
	ListOffset     int
	ListHeight     int
	LogWidth       int
	LogHeight      int
	FollowMode     bool
}

// NewModel creates an empty model writing through w's color profile. A
// nil writer defaults to stderr.
func NewModel(w io.Writer) Model {
	out := output.New(w)
	lipgloss.SetColorProfile(out.Profile)

	return Model{
		Steps:      make([]*StepNode, 0),
		StepMap:    make(map[string]*StepNode),
		SpanMap:    make(map[string]*StepNode),
		FollowMode: true,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // message dispatch
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "k", "up":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.FollowMode = false
				m.ensureVisible()
				m.updateActiveView()
			}
		case "j", "down":
			if m.SelectedIdx < len(m.Steps)-1 {
				m.SelectedIdx++
				m.FollowMode = false
				m.ensureVisible()
				m.updateActiveView()
			}
		case "esc":
			m.FollowMode = true
			for i, s := range m.Steps {
				if s.Status == StatusRunning {
					m.SelectedIdx = i
					break
				}
			}
			m.ensureVisible()
			m.updateActiveView()
		default:
			// Scroll keys go to the active step's terminal.
			if node, ok := m.StepMap[m.ActiveStepName]; ok {
				node.Term.Update(msg)
			}
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case MsgPlan:
		// The plan may land after the first span start; merging keeps
		// in-flight rows and their span mappings.
		m.ensureMaps()
		for _, name := range msg.Steps {
			if _, ok := m.StepMap[name]; !ok {
				m.appendStep(name)
			}
		}

	case MsgStepStart:
		m.ensureMaps()
		node, ok := m.StepMap[msg.Name]
		if !ok {
			// Steps outside the announced plan still get a row.
			node = m.appendStep(msg.Name)
		}
		node.Status = StatusRunning
		node.Started = msg.StartTime
		m.SpanMap[msg.SpanID] = node

		if m.FollowMode {
			for i, s := range m.Steps {
				if s == node {
					m.SelectedIdx = i
					break
				}
			}
			m.ensureVisible()
			m.updateActiveView()
		}

	case MsgStepLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			_, _ = node.Term.Write(msg.Data)
		}

	case MsgStepComplete:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			node.Ended = msg.EndTime
			node.Err = msg.Err
			if msg.Err != nil {
				node.Status = StatusFailed
			} else {
				node.Status = StatusDone
			}
		}
	}

	return m, nil
}

func (m *Model) ensureMaps() {
	if m.StepMap == nil {
		m.StepMap = make(map[string]*StepNode)
	}
	if m.SpanMap == nil {
		m.SpanMap = make(map[string]*StepNode)
	}
}

func (m *Model) appendStep(name string) *StepNode {
	term := NewVterm()
	if m.LogWidth > 0 && m.LogHeight > 0 {
		term.SetWidth(m.LogWidth)
		term.SetHeight(m.LogHeight)
	}

	node := &StepNode{
		Name:   name,
		Status: StatusPending,
		Term:   term,
	}
	m.Steps = append(m.Steps, node)
	m.StepMap[name] = node
	return node
}

func (m *Model) resize(width, height int) {
	listWidth := int(float64(width) * stepListWidthRatio)
	m.LogWidth = width - listWidth - logPaneBorderWidth

	logHeader := lipgloss.Height(titleStyle.Render("LOGS"))
	m.LogHeight = height - logHeader

	listHeader := lipgloss.Height(titleStyle.Render("STEPS") + "\n\n")
	m.ListHeight = height - listHeader
	m.ensureVisible()

	for _, node := range m.Steps {
		node.Term.SetWidth(m.LogWidth)
		node.Term.SetHeight(m.LogHeight)
	}
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

func (m *Model) selectedStep() *StepNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Steps) {
		return m.Steps[m.SelectedIdx]
	}
	return nil
}

func (m *Model) updateActiveView() {
	node := m.selectedStep()
	if node == nil {
		return
	}
	m.ActiveStepName = node.Name

	if m.FollowMode {
		node.Term.ScrollToBottom()
	}
}

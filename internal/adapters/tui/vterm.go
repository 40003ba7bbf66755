package tui

import (
	"bytes"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/midterm"
)

// Vterm holds a step's output in a virtual terminal so ANSI sequences
// from npm and grunt render the way they would in a real one.
type Vterm struct {
	vt     *midterm.Terminal
	Offset int
	Height int
	Width  int
	mu     sync.Mutex
}

// NewVterm creates an empty virtual terminal.
func NewVterm() *Vterm {
	return &Vterm{
		vt: midterm.NewAutoResizingTerminal(),
	}
}

// Write feeds output into the terminal. A view scrolled to the bottom
// stays there.
func (v *Vterm) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	atBottom := v.Offset >= v.maxOffset()

	n, err := v.vt.Write(p)

	if atBottom {
		v.Offset = v.maxOffset()
	}

	return n, err
}

// SetHeight updates the view height, keeping the offset valid.
func (v *Vterm) SetHeight(h int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if h < 1 {
		h = 1
	}

	atBottom := v.Offset >= v.maxOffset()
	v.Height = h

	if atBottom {
		v.Offset = v.maxOffset()
	} else {
		v.clampLocked()
	}
}

// SetWidth resizes the terminal's columns.
func (v *Vterm) SetWidth(w int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if w < 1 {
		w = 1
	}

	v.Width = w
	v.vt.ResizeX(w)
}

// UsedHeight returns the number of lines holding content.
func (v *Vterm) UsedHeight() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vt.UsedHeight()
}

// ScrollToBottom pins the view to the newest output.
func (v *Vterm) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Offset = v.maxOffset()
}

// View renders the visible window of the terminal.
func (v *Vterm) View() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.clampLocked()

	var buf bytes.Buffer
	for i := 0; i < v.Height; i++ {
		row := v.Offset + i
		if row >= v.vt.UsedHeight() {
			break
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		_ = v.vt.RenderLine(&buf, row)
	}
	return buf.String()
}

// Update handles scroll keys.
func (v *Vterm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up":
			v.Offset--
		case "down":
			v.Offset++
		case "pgup":
			v.Offset -= v.Height
		case "pgdown":
			v.Offset += v.Height
		case "home":
			v.Offset = 0
		case "end":
			v.Offset = v.maxOffset()
		}
	}

	v.clampLocked()
	return nil, nil
}

func (v *Vterm) clampLocked() {
	if v.Offset < 0 {
		v.Offset = 0
	}
	if limit := v.maxOffset(); v.Offset > limit {
		v.Offset = limit
	}
}

func (v *Vterm) maxOffset() int {
	off := v.vt.UsedHeight() - v.Height
	if off < 0 {
		return 0
	}
	return off
}

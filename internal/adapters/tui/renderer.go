package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Renderer wraps the Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	errCh   chan error
}

// NewRenderer creates a renderer around model.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		errCh:   make(chan error, 1),
	}
}

// Start launches the view in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop signals the view to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the view has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnPlanEmit seeds the step list.
func (r *Renderer) OnPlanEmit(steps []string) {
	r.program.Send(MsgPlan{Steps: steps})
}

// OnStepStart marks a step as running. Steps form a flat sequence, so
// the parent span ID is unused.
func (r *Renderer) OnStepStart(spanID, _, name string, startTime time.Time) {
	r.program.Send(MsgStepStart{
		SpanID:    spanID,
		Name:      name,
		StartTime: startTime,
	})
}

// OnStepLog forwards step output to the view.
func (r *Renderer) OnStepLog(spanID string, data []byte) {
	r.program.Send(MsgStepLog{
		SpanID: spanID,
		Data:   data,
	})
}

// OnStepComplete marks a step as finished.
func (r *Renderer) OnStepComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(MsgStepComplete{
		SpanID:  spanID,
		EndTime: endTime,
		Err:     err,
	})
}

// Program exposes the underlying tea.Program for tests.
func (r *Renderer) Program() *tea.Program {
	return r.program
}

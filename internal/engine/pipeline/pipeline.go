// Package pipeline executes staging steps in order under one span each.
package pipeline

import (
	"context"

	"github.com/stagehand-dev/stagehand/internal/core/ports"
	"go.trai.ch/zerr"
)

// Step is one unit of staging work. Run receives the step's span, which
// doubles as the sink for live command output.
type Step struct {
	Name string
	Run  func(ctx context.Context, span ports.Span) error
}

// Pipeline runs steps sequentially and stops at the first failure.
type Pipeline struct {
	tracer ports.Tracer
}

// New creates a Pipeline reporting through tracer.
func New(tracer ports.Tracer) *Pipeline {
	return &Pipeline{tracer: tracer}
}

// Run announces the plan and executes each step in order. The error of
// a failing step carries the step name; later steps do not run.
func (p *Pipeline) Run(ctx context.Context, steps []Step) error {
	names := make([]string, len(steps))
	for i, step := range steps {
		names[i] = step.Name
	}
	p.tracer.EmitPlan(ctx, names)

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.runStep(ctx, step); err != nil {
			return zerr.With(zerr.Wrap(err, "step failed"), "step", step.Name)
		}
	}

	return nil
}

// runStep scopes the span to one frame so End runs before the next
// step starts.
func (p *Pipeline) runStep(ctx context.Context, step Step) error {
	ctx, span := p.tracer.Start(ctx, step.Name)
	defer span.End()

	if err := step.Run(ctx, span); err != nil {
		span.RecordError(err)
		return err
	}

	return nil
}

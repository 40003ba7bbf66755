package telemetry

import (
	"context"
	"errors"

	"github.com/stagehand-dev/stagehand/internal/core/ports"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Bridge is an sdktrace.SpanProcessor that turns span lifecycle events
// into renderer callbacks. Installed on the tracer provider it gives
// the renderer a start and a completion signal for every step.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a Bridge reporting to renderer.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart reports the new span to the renderer.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var parentID string
	if p := trace.SpanFromContext(parent); p.SpanContext().IsValid() {
		parentID = p.SpanContext().SpanID().String()
	}

	b.renderer.OnStepStart(sc.SpanID().String(), parentID, s.Name(), s.StartTime())
}

// OnEnd reports span completion to the renderer. A failed span's error
// is rebuilt from the status description.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "step failed"
		}
		err = errors.New(desc)
	}

	b.renderer.OnStepComplete(sc.SpanID().String(), s.EndTime(), err)
}

// ForceFlush implements sdktrace.SpanProcessor.
func (b *Bridge) ForceFlush(_ context.Context) error { return nil }

// Shutdown implements sdktrace.SpanProcessor.
func (b *Bridge) Shutdown(_ context.Context) error { return nil }

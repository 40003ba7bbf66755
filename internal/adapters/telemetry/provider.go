package telemetry

import (
	"context"
	"fmt"
	"sync"

	"github.com/stagehand-dev/stagehand/internal/core/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// EventBufferSize is the capacity of the renderer event channel.
const EventBufferSize = 4096

// OTelTracer implements ports.Tracer on the OpenTelemetry SDK. Span
// output and plan announcements reach the attached renderer through a
// single delivery goroutine, in order.
type OTelTracer struct {
	tracer trace.Tracer
	events chan rendererEvent

	mu       sync.RWMutex
	renderer ports.Renderer
}

// NewOTelTracer creates a tracer with the given instrumentation name.
func NewOTelTracer(name string) *OTelTracer {
	t := &OTelTracer{
		tracer: otel.Tracer(name),
		events: make(chan rendererEvent, EventBufferSize),
	}
	go t.deliver()
	return t
}

// WithRenderer directs span output at r.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderer = r
	return t
}

// Shutdown stops the delivery goroutine. The tracer must not be used
// afterwards.
func (t *OTelTracer) Shutdown(_ context.Context) error {
	close(t.events)
	return nil
}

func (t *OTelTracer) deliver() {
	for ev := range t.events {
		t.mu.RLock()
		r := t.renderer
		t.mu.RUnlock()

		if r != nil {
			ev.deliver(r)
		}
	}
}

// Start opens a span. With a renderer attached the span's writes are
// batched and forwarded to it under the span's ID.
func (t *OTelTracer) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	ctx, span := t.tracer.Start(ctx, name)

	t.mu.RLock()
	r := t.renderer
	t.mu.RUnlock()

	var batcher *BatchProcessor
	if r != nil {
		spanID := span.SpanContext().SpanID().String()
		batcher = NewBatchProcessor(0, 0, func(data []byte) {
			select {
			case t.events <- logEvent{spanID: spanID, data: data}:
			default:
				// Drop the chunk when the channel is full.
			}
		})
	}

	return ctx, &OTelSpan{span: span, batcher: batcher}
}

// EmitPlan announces the step sequence to the renderer and records it
// on the current span.
func (t *OTelTracer) EmitPlan(ctx context.Context, stepNames []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("steps", stepNames),
		))
	}

	t.mu.RLock()
	r := t.renderer
	t.mu.RUnlock()

	if r != nil {
		// The plan seeds the renderer's step list; block, never drop.
		t.events <- planEvent{steps: stepNames}
	}
}

// rendererEvent is a unit of output queued for the renderer.
type rendererEvent interface {
	deliver(r ports.Renderer)
}

type planEvent struct {
	steps []string
}

func (e planEvent) deliver(r ports.Renderer) {
	r.OnPlanEmit(e.steps)
}

type logEvent struct {
	spanID string
	data   []byte
}

func (e logEvent) deliver(r ports.Renderer) {
	r.OnStepLog(e.spanID, e.data)
}

// OTelSpan implements ports.Span over an OpenTelemetry span.
type OTelSpan struct {
	span    trace.Span
	batcher *BatchProcessor
}

// End flushes pending output and completes the span.
func (s *OTelSpan) End() {
	if s.batcher != nil {
		_ = s.batcher.Close()
	}
	s.span.End()
}

// RecordError marks the span failed with err.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write carries the step's live output. With a renderer attached the
// bytes go through the batcher; otherwise they become span events.
func (s *OTelSpan) Write(p []byte) (int, error) {
	if s.batcher != nil {
		return s.batcher.Write(p)
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}

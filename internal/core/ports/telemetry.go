package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string) (context.Context, Span)

	// EmitPlan signals that a sequence of steps is about to execute.
	EmitPlan(ctx context.Context, stepNames []string)

	// Shutdown flushes any buffered telemetry.
	Shutdown(ctx context.Context) error
}

// Span represents a unit of work. Writes carry the step's live output.
type Span interface {
	io.Writer

	// End completes the span.
	End()

	// RecordError records an error for the span.
	RecordError(err error)

	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

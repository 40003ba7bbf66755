package tui

import "time"

// MsgPlan seeds the step list in execution order.
type MsgPlan struct {
	Steps []string
}

// MsgStepStart marks a step as running.
type MsgStepStart struct {
	SpanID    string
	Name      string
	StartTime time.Time
}

// MsgStepLog carries a chunk of output for a running step.
type MsgStepLog struct {
	SpanID string
	Data   []byte
}

// MsgStepComplete marks a step as finished.
type MsgStepComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}

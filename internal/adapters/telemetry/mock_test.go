package telemetry_test

import (
	"context"
	"sync"
	"time"
)

// mockRenderer is a hand-rolled test double for ports.Renderer.
type mockRenderer struct {
	mu            sync.Mutex
	planCalls     int
	startCalls    int
	logCalls      int
	completeCalls int
	logs          [][]byte
}

func (m *mockRenderer) Start(_ context.Context) error { return nil }
func (m *mockRenderer) Stop() error                   { return nil }
func (m *mockRenderer) Wait() error                   { return nil }

func (m *mockRenderer) OnPlanEmit(_ []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planCalls++
}

func (m *mockRenderer) OnStepStart(_, _, _ string, _ time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startCalls++
}

func (m *mockRenderer) OnStepLog(_ string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCalls++
	m.logs = append(m.logs, data)
}

func (m *mockRenderer) OnStepComplete(_ string, _ time.Time, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeCalls++
}

func (m *mockRenderer) counts() (plan, start, log, complete int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.planCalls, m.startCalls, m.logCalls, m.completeCalls
}

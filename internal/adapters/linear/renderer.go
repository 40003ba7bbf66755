// Package linear renders staging progress as a flat build log.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"github.com/stagehand-dev/stagehand/internal/ui/output"
	"github.com/stagehand-dev/stagehand/internal/ui/style"
)

const (
	headerPrefix = "-----> "
	bodyIndent   = "       "
)

// Renderer implements ports.Renderer for CI runs and piped output. It
// prints an arrow header per step and the step's output indented
// beneath it. Steps run one at a time, so lines never interleave.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	out    *termenv.Output

	mu    sync.Mutex
	steps map[string]*stepState
}

type stepState struct {
	name    string
	started time.Time
	buf     bytes.Buffer
}

// NewRenderer creates a linear renderer. Nil writers default to the
// process streams.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		out:    output.NewWithProfile(stderr, output.ColorProfileANSI),
		steps:  make(map[string]*stepState),
	}
}

// Start is a no-op; the linear renderer is synchronous.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes any buffered partial lines.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := range r.steps {
		r.flushLocked(id)
	}
	return nil
}

// Wait is a no-op; the linear renderer is synchronous.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit is a no-op. The headers carry the plan as it runs.
func (r *Renderer) OnPlanEmit(_ []string) {}

// OnStepStart prints the step header.
func (r *Renderer) OnStepStart(spanID, _, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps[spanID] = &stepState{name: name, started: startTime}
	_, _ = fmt.Fprintf(r.stdout, "%s%s\n", headerPrefix, name)
}

// OnStepLog buffers data and prints complete lines indented under the
// step's header.
func (r *Renderer) OnStepLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	step, ok := r.steps[spanID]
	if !ok {
		return
	}
	step.buf.Write(data)

	for {
		line, err := step.buf.ReadBytes('\n')
		if err != nil {
			// Keep the partial line for the next chunk. ReadBytes
			// returns a copy, so writing it back is safe.
			if len(line) > 0 {
				step.buf.Write(line)
			}
			break
		}
		r.printLocked(line)
	}
}

// OnStepComplete flushes the step. Failures get a marked line with the
// elapsed time; successful steps end quietly.
func (r *Renderer) OnStepComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	step, ok := r.steps[spanID]
	if !ok {
		return
	}
	r.flushLocked(spanID)

	if err != nil {
		mark := r.out.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s%s %s failed after %s: %v\n",
			bodyIndent, mark, step.name,
			endTime.Sub(step.started).Round(time.Millisecond), err)
	}

	delete(r.steps, spanID)
}

// flushLocked prints any pending partial line. Requires r.mu held.
func (r *Renderer) flushLocked(spanID string) {
	step, ok := r.steps[spanID]
	if !ok {
		return
	}
	if step.buf.Len() > 0 {
		r.printLocked(step.buf.Bytes())
		step.buf.Reset()
	}
}

// printLocked prints one log line under the current header. Requires
// r.mu held.
func (r *Renderer) printLocked(line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	_, _ = fmt.Fprintf(r.stdout, "%s%s\n", bodyIndent, line)
}

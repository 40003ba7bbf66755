package tui_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stagehand-dev/stagehand/internal/adapters/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *tui.Renderer {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	model := tui.NewModel(io.Discard)
	return tui.NewRenderer(&model,
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)
}

func TestRenderer_Lifecycle(t *testing.T) {
	r := newTestRenderer(t)

	require.NoError(t, r.Start(context.Background()))
	time.Sleep(10 * time.Millisecond)

	r.OnPlanEmit([]string{"resolve engine versions", "install node"})
	r.OnStepStart("span-1", "", "resolve engine versions", time.Now())
	r.OnStepLog("span-1", []byte("requested range: 0.10.x\n"))
	r.OnStepComplete("span-1", time.Now(), nil)
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())
}

func TestRenderer_FailedStep(t *testing.T) {
	r := newTestRenderer(t)

	require.NoError(t, r.Start(context.Background()))
	time.Sleep(10 * time.Millisecond)

	r.OnStepStart("span-1", "", "install dependencies", time.Now())
	r.OnStepComplete("span-1", time.Now(), assert.AnError)
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())
}

func TestRenderer_Program(t *testing.T) {
	r := newTestRenderer(t)

	assert.NotNil(t, r.Program())
}

package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stagehand-dev/stagehand/internal/core/ports"
	"github.com/stagehand-dev/stagehand/internal/core/ports/mocks"
	"github.com/stagehand-dev/stagehand/internal/engine/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPipeline_RunsStepsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)

	tracer.EXPECT().EmitPlan(gomock.Any(), []string{"resolve engine versions", "install node"})
	tracer.EXPECT().Start(gomock.Any(), "resolve engine versions").Return(context.Background(), span)
	tracer.EXPECT().Start(gomock.Any(), "install node").Return(context.Background(), span)
	span.EXPECT().End().Times(2)

	var order []string
	p := pipeline.New(tracer)
	err := p.Run(context.Background(), []pipeline.Step{
		{Name: "resolve engine versions", Run: func(_ context.Context, _ ports.Span) error {
			order = append(order, "resolve engine versions")
			return nil
		}},
		{Name: "install node", Run: func(_ context.Context, _ ports.Span) error {
			order = append(order, "install node")
			return nil
		}},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"resolve engine versions", "install node"}, order)
}

func TestPipeline_FailFast(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)
	boom := errors.New("exited with status 1")

	tracer.EXPECT().EmitPlan(gomock.Any(), []string{"install dependencies", "save cache"})
	tracer.EXPECT().Start(gomock.Any(), "install dependencies").Return(context.Background(), span)
	span.EXPECT().RecordError(boom)
	span.EXPECT().End()

	laterRan := false
	p := pipeline.New(tracer)
	err := p.Run(context.Background(), []pipeline.Step{
		{Name: "install dependencies", Run: func(_ context.Context, _ ports.Span) error {
			return boom
		}},
		{Name: "save cache", Run: func(_ context.Context, _ ports.Span) error {
			laterRan = true
			return nil
		}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "install dependencies")
	assert.False(t, laterRan)
}

func TestPipeline_StepWritesToSpan(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)

	tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any())
	tracer.EXPECT().Start(gomock.Any(), "install node").Return(context.Background(), span)
	span.EXPECT().Write([]byte("downloading node-v0.10.30\n")).Return(26, nil)
	span.EXPECT().End()

	p := pipeline.New(tracer)
	err := p.Run(context.Background(), []pipeline.Step{
		{Name: "install node", Run: func(_ context.Context, s ports.Span) error {
			_, werr := s.Write([]byte("downloading node-v0.10.30\n"))
			return werr
		}},
	})

	require.NoError(t, err)
}

func TestPipeline_CanceledBeforeFirstStep(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)

	tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := pipeline.New(tracer)
	err := p.Run(ctx, []pipeline.Step{
		{Name: "install node", Run: func(_ context.Context, _ ports.Span) error {
			t.Fatal("step must not run on a canceled context")
			return nil
		}},
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_CanceledBetweenSteps(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)

	tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any())
	tracer.EXPECT().Start(gomock.Any(), "first").Return(context.Background(), span)
	span.EXPECT().End()

	ctx, cancel := context.WithCancel(context.Background())

	laterRan := false
	p := pipeline.New(tracer)
	err := p.Run(ctx, []pipeline.Step{
		{Name: "first", Run: func(_ context.Context, _ ports.Span) error {
			cancel()
			return nil
		}},
		{Name: "second", Run: func(_ context.Context, _ ports.Span) error {
			laterRan = true
			return nil
		}},
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, laterRan)
}

func TestPipeline_NoSteps(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)

	tracer.EXPECT().EmitPlan(gomock.Any(), []string{})

	p := pipeline.New(tracer)
	require.NoError(t, p.Run(context.Background(), nil))
}

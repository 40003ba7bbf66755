package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stagehand-dev/stagehand/internal/app"
	"github.com/stagehand-dev/stagehand/internal/core/domain"
	"github.com/stagehand-dev/stagehand/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newMockedApp(ctrl *gomock.Controller) (*app.App, *appMocks) {
	m := &appMocks{
		logger:    mocks.NewMockLogger(ctrl),
		settings:  mocks.NewMockSettingsLoader(ctrl),
		project:   mocks.NewMockProjectReader(ctrl),
		resolver:  mocks.NewMockVersionResolver(ctrl),
		installer: mocks.NewMockRuntimeInstaller(ctrl),
		cache:     mocks.NewMockCacheStore(ctrl),
		env:       mocks.NewMockEnvLoader(ctrl),
		executor:  mocks.NewMockExecutor(ctrl),
	}
	a := app.New(m.logger, m.settings, m.project, m.resolver, m.installer, m.cache, m.env, m.executor)
	return a, m
}

type appMocks struct {
	logger    *mocks.MockLogger
	settings  *mocks.MockSettingsLoader
	project   *mocks.MockProjectReader
	resolver  *mocks.MockVersionResolver
	installer *mocks.MockRuntimeInstaller
	cache     *mocks.MockCacheStore
	env       *mocks.MockEnvLoader
	executor  *mocks.MockExecutor
}

func headlessTea(a *app.App) {
	a.WithTeaOptions(
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	application, m := newMockedApp(ctrl)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: m.logger,
		}, func() {}, nil
	}

	stderr := new(bytes.Buffer)

	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 when the command execution fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	application, m := newMockedApp(ctrl)
	m.logger.EXPECT().Error(gomock.Any()).AnyTimes()

	// Settings loading fails before any staging work starts.
	m.settings.EXPECT().Load(gomock.Any()).Return(nil, errors.New("load failed"))

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: m.logger,
		}, func() {}, nil
	}

	buildDir := t.TempDir()
	cacheDir := t.TempDir()

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"stage", buildDir, cacheDir}, stderr, provider, headlessTea)

	assert.Equal(t, 1, exitCode)
}

// TestRun_CommandExitCode verifies that a failed staging subcommand
// decides the process exit status.
func TestRun_CommandExitCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	application, m := newMockedApp(ctrl)

	buildDir := t.TempDir()
	cacheDir := t.TempDir()

	m.settings.EXPECT().Load(buildDir).Return(domain.DefaultSettings(), nil)
	m.project.EXPECT().Read(buildDir).Return(&domain.Project{
		Manifest: &domain.PackageManifest{Engines: domain.Engines{Node: "0.10.x"}},
	}, nil)
	m.env.EXPECT().Load("").Return(map[string]string{}, nil)
	m.resolver.EXPECT().Resolve(gomock.Any(), "0.10.x", gomock.Any()).Return("0.10.30", nil)
	m.installer.EXPECT().Install(gomock.Any(), gomock.Any()).Return([]string{"PATH=/stub"}, nil)
	m.cache.EXPECT().Meta(cacheDir).Return(nil, nil)
	m.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.CommandError{Name: "npm-install", ExitCode: 34})

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: m.logger,
		}, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"stage", buildDir, cacheDir, "--output-mode", "tui"}, stderr, provider, headlessTea)

	assert.Equal(t, 34, exitCode)
	assert.Contains(t, stderr.String(), "Full output captured at ")
	assert.Contains(t, stderr.String(), filepath.Join(".stagehand", "logs", "npm-install.log"))
}

// TestRun_Signal verifies that the context is canceled on signal.
func TestRun_Signal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	application, m := newMockedApp(ctrl)
	m.logger.EXPECT().Error(gomock.Any()).AnyTimes()

	// The provider blocks in settings loading until the context dies.
	blockCh := make(chan struct{})
	m.settings.EXPECT().Load(gomock.Any()).DoAndReturn(func(_ string) (*domain.Settings, error) {
		select {
		case <-blockCh:
			return nil, context.Canceled
		case <-time.After(5 * time.Second):
			return nil, errors.New("timeout in mock")
		}
	})

	buildDir := t.TempDir()
	cacheDir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan int)

	go func() {
		errCh <- run(ctx, []string{"stage", buildDir, cacheDir}, io.Discard, func(context.Context) (*app.Components, func(), error) {
			return &app.Components{App: application, Logger: m.logger}, func() {}, nil
		}, headlessTea)
	}()

	// Wait a bit to ensure run() reaches Load()
	time.Sleep(100 * time.Millisecond)

	cancel()
	close(blockCh)

	select {
	case ret := <-errCh:
		assert.NotEqual(t, 0, ret)
	case <-time.After(2 * time.Second):
		t.Fatal("TestRun_Signal timed out waiting for run() to return")
	}
}

// Package app implements the application layer for stagehand.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stagehand-dev/stagehand/internal/adapters/detector"
	"github.com/stagehand-dev/stagehand/internal/adapters/linear"
	"github.com/stagehand-dev/stagehand/internal/adapters/telemetry"
	"github.com/stagehand-dev/stagehand/internal/adapters/tui"
	"github.com/stagehand-dev/stagehand/internal/core/domain"
	"github.com/stagehand-dev/stagehand/internal/core/ports"
	"github.com/stagehand-dev/stagehand/internal/engine/pipeline"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	logger     ports.Logger
	settings   ports.SettingsLoader
	project    ports.ProjectReader
	resolver   ports.VersionResolver
	installer  ports.RuntimeInstaller
	cache      ports.CacheStore
	envLoader  ports.EnvLoader
	executor   ports.Executor
	teaOptions []tea.ProgramOption
}

// New creates a new App instance.
func New(
	log ports.Logger,
	settings ports.SettingsLoader,
	project ports.ProjectReader,
	resolver ports.VersionResolver,
	installer ports.RuntimeInstaller,
	cache ports.CacheStore,
	envLoader ports.EnvLoader,
	executor ports.Executor,
) *App {
	return &App{
		logger:    log,
		settings:  settings,
		project:   project,
		resolver:  resolver,
		installer: installer,
		cache:     cache,
		envLoader: envLoader,
		executor:  executor,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// StageOptions configuration for the Stage method.
type StageOptions struct {
	OutputMode string
}

// Stage prepares the application in the build directory: it resolves
// and installs the runtime, restores and saves the dependency cache,
// and runs the package installs.
func (a *App) Stage(ctx context.Context, dirs domain.StageDirs, opts StageOptions) error {
	if err := dirs.Normalize(); err != nil {
		return err
	}

	settings, err := a.settings.Load(dirs.BuildDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load settings")
	}

	project, err := a.project.Read(dirs.BuildDir)
	if errors.Is(err, domain.ErrManifestNotFound) {
		// Staging without a manifest resolves the default runtime and
		// installs nothing.
		a.logger.Warn("no package.json found in the build directory; staging with defaults")
		project, err = &domain.Project{}, nil
	}
	if err != nil {
		return zerr.Wrap(err, "failed to read project")
	}

	extraEnv, err := a.envLoader.Load(dirs.EnvDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load external configuration")
	}

	// Detect environment and resolve output mode.
	mode := detector.ResolveMode(detector.DetectEnvironment(), opts.OutputMode)

	var renderer ports.Renderer
	if mode == detector.ModeTUI {
		model := tui.NewModel(os.Stderr)
		optsTea := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		renderer = tui.NewRenderer(&model, optsTea...)
	} else {
		renderer = linear.NewRenderer(os.Stdout, os.Stderr)
	}

	// All spans started through the global provider reach the renderer.
	setupOTel(telemetry.NewBridge(renderer))

	tracer := telemetry.NewOTelTracer("stagehand").WithRenderer(renderer)
	defer func() {
		_ = tracer.Shutdown(ctx)
	}()

	run := a.newStageRun(dirs, settings, project, extraEnv)
	pipe := pipeline.New(tracer)

	g, ctx := errgroup.WithContext(ctx)

	// Renderer routine.
	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		// Wait blocks until the renderer has terminated.
		return renderer.Wait()
	})

	// Pipeline routine.
	g.Go(func() error {
		defer func() {
			if rec := recover(); rec != nil {
				// Print panic info before renderer shutdown.
				fmt.Fprintf(os.Stderr, "staging panic: %v\n", rec)
			}
			// The renderer stops once the pipeline is finished.
			_ = renderer.Stop()
		}()

		if err := pipe.Run(ctx, run.steps()); err != nil {
			return errors.Join(domain.ErrStagingFailed, err)
		}
		return nil
	})

	return g.Wait()
}

// Clean removes stagehand-owned state from the build and cache
// directories. The application source itself is left untouched.
func (a *App) Clean(_ context.Context, dirs domain.StageDirs) error {
	if err := dirs.Normalize(); err != nil {
		return err
	}

	var errs error
	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, "failed to remove "+name))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(domain.StateDir(dirs.BuildDir), "staging state")
	remove(domain.RuntimeDir(dirs.BuildDir), "installed runtime")
	remove(domain.ProfileScriptPath(dirs.BuildDir), "profile script")

	a.logger.Info("purging dependency cache...")
	if err := a.cache.Purge(dirs.CacheDir); err != nil {
		errs = errors.Join(errs, err)
	} else {
		a.logger.Info("purged dependency cache")
	}

	return errs
}

// setupOTel points the global OpenTelemetry SDK at the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}

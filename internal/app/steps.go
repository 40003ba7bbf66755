package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stagehand-dev/stagehand/internal/adapters/semver"
	"github.com/stagehand-dev/stagehand/internal/core/domain"
	"github.com/stagehand-dev/stagehand/internal/core/ports"
	"github.com/stagehand-dev/stagehand/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// profileScript puts the staged runtime and package executables on PATH
// when the application boots.
const profileScript = `export PATH="$HOME/vendor/node/bin:$HOME/node_modules/.bin:$PATH"` + "\n"

// stageRun carries state across the steps of one staging run.
type stageRun struct {
	app      *App
	dirs     domain.StageDirs
	settings *domain.Settings
	project  *domain.Project
	extraEnv map[string]string

	version            string
	runtimeEnv         []string
	meta               *domain.CacheMeta
	restoredModules    bool
	restoredComponents bool
	rebuildModules     bool
}

func (a *App) newStageRun(
	dirs domain.StageDirs,
	settings *domain.Settings,
	project *domain.Project,
	extraEnv map[string]string,
) *stageRun {
	return &stageRun{
		app:      a,
		dirs:     dirs,
		settings: settings,
		project:  project,
		extraEnv: extraEnv,
	}
}

// steps returns the pipeline for this run. The grunt step only appears
// when a Gruntfile was detected.
func (r *stageRun) steps() []pipeline.Step {
	steps := []pipeline.Step{
		{Name: "resolve engine versions", Run: r.resolveEngines},
		{Name: "install node", Run: r.installRuntime},
		{Name: "restore cache", Run: r.restoreCache},
		{Name: "install dependencies", Run: r.installDependencies},
		{Name: "save cache", Run: r.saveCache},
	}
	if r.project.Gruntfile != "" {
		steps = append(steps, pipeline.Step{Name: "run grunt tasks", Run: r.runGrunt})
	}
	return steps
}

func (r *stageRun) resolveEngines(ctx context.Context, span ports.Span) error {
	rng := ""
	if r.project.Manifest != nil {
		rng = strings.TrimSpace(r.project.Manifest.Engines.Node)
		if strings.TrimSpace(r.project.Manifest.Engines.NPM) != "" {
			fmt.Fprintln(span, "WARNING: engines.npm is ignored; the npm bundled with node is used")
		}
	}
	for _, advisory := range semver.Advisories(rng) {
		fmt.Fprintf(span, "WARNING: %s\n", advisory)
	}

	// Wildcard ranges resolve as the empty range, which the service
	// answers with its default version.
	requested := rng
	if semver.IsWildcard(requested) {
		requested = ""
	}

	version, err := r.app.resolver.Resolve(ctx, requested, domain.ResolveRequest{
		Endpoint: r.settings.ResolverURL,
		CacheDir: r.dirs.CacheDir,
	})
	if err != nil {
		return err
	}

	if semver.IsUnstable(version) {
		fmt.Fprintf(span, "WARNING: node %s is an unstable development release\n", version)
	}
	fmt.Fprintf(span, "Using Node.js version: %s\n", version)

	span.SetAttribute("node.requested", rng)
	span.SetAttribute("node.version", version)
	r.version = version
	return nil
}

func (r *stageRun) installRuntime(ctx context.Context, span ports.Span) error {
	fmt.Fprintf(span, "Downloading and installing node %s...\n", r.version)

	env, err := r.app.installer.Install(ctx, domain.InstallRequest{
		Version:   r.version,
		Platform:  r.settings.Platform,
		MirrorURL: r.settings.MirrorURL,
		BuildDir:  r.dirs.BuildDir,
	})
	if err != nil {
		return err
	}

	r.runtimeEnv = env
	span.SetAttribute("node.mirror", r.settings.MirrorURL)
	return nil
}

func (r *stageRun) restoreCache(_ context.Context, span ports.Span) error {
	meta, err := r.app.cache.Meta(r.dirs.CacheDir)
	if err != nil {
		return err
	}
	r.meta = meta

	if r.project.HasCommittedModules {
		fmt.Fprintln(span, "Found existing node_modules directory; skipping cache")
		r.rebuildModules = true
	} else if meta.Usable() {
		restored, err := r.app.cache.Restore(r.dirs.CacheDir, r.dirs.BuildDir, domain.ModulesDirName)
		if err != nil {
			return err
		}
		if restored {
			fmt.Fprintln(span, "Restoring node_modules directory from cache")
			r.restoredModules = true
			r.reportManifestDrift(span, domain.ManifestFileName)
			if meta.NeedsRebuild(r.version) {
				fmt.Fprintln(span, "Node version changed since last build; dependencies will be rebuilt")
				r.rebuildModules = true
			}
		}
	}

	if r.project.HasComponents && meta.Usable() {
		// A committed bower_components tree wins over the cache, the
		// same way a committed node_modules does.
		if _, err := os.Stat(filepath.Join(r.dirs.BuildDir, domain.ComponentsDirName)); err == nil {
			fmt.Fprintln(span, "Found existing bower_components directory; skipping cache")
		} else {
			restored, err := r.app.cache.Restore(r.dirs.CacheDir, r.dirs.BuildDir, domain.ComponentsDirName)
			if err != nil {
				return err
			}
			if restored {
				fmt.Fprintln(span, "Restoring bower_components directory from cache")
				r.restoredComponents = true
				r.reportManifestDrift(span, domain.ComponentManifestFileName)
			}
		}
	}

	span.SetAttribute("cache.restored_modules", r.restoredModules)
	span.SetAttribute("cache.rebuild", r.rebuildModules)
	return nil
}

// reportManifestDrift notes when a manifest changed since the cache was
// saved. Informational only; prune and install reconcile the trees.
func (r *stageRun) reportManifestDrift(span ports.Span, name string) {
	prev := r.meta.Fingerprints[name]
	if prev == "" {
		return
	}
	current, err := r.app.cache.Fingerprint(filepath.Join(r.dirs.BuildDir, name))
	if err != nil || current == "" {
		return
	}
	if current != prev {
		fmt.Fprintf(span, "%s changed since the cache was saved\n", name)
	}
}

func (r *stageRun) installDependencies(ctx context.Context, span ports.Span) error {
	if r.restoredModules {
		fmt.Fprintln(span, "Pruning cached dependencies not specified in package.json")
		if err := r.runCommand(ctx, span, &domain.Command{
			Name: "npm-prune",
			Argv: []string{"npm", "prune"},
			Dir:  r.dirs.BuildDir,
			Env:  r.extraEnv,
		}); err != nil {
			return err
		}
	}

	if r.rebuildModules {
		fmt.Fprintln(span, "Rebuilding any native dependencies")
		if err := r.runCommand(ctx, span, &domain.Command{
			Name: "npm-rebuild",
			Argv: []string{"npm", "rebuild"},
			Dir:  r.dirs.BuildDir,
			Env:  r.extraEnv,
		}); err != nil {
			return err
		}
	}

	argv := []string{"npm", "install", "--unsafe-perm", "--cache", domain.NpmScratchDir(r.dirs.BuildDir)}
	if r.project.HasNpmrc {
		argv = append(argv, "--userconfig", filepath.Join(r.dirs.BuildDir, domain.NpmrcFileName))
	}
	if err := r.runCommand(ctx, span, &domain.Command{
		Name: "npm-install",
		Argv: argv,
		Dir:  r.dirs.BuildDir,
		Env:  r.extraEnv,
	}); err != nil {
		return err
	}

	if r.project.HasComponents {
		return r.installComponents(ctx, span)
	}
	return nil
}

func (r *stageRun) installComponents(ctx context.Context, span ports.Span) error {
	bower := filepath.Join(domain.ModulesBinDir(r.dirs.BuildDir), "bower")
	_, statErr := os.Stat(bower)
	if statErr != nil {
		if r.project.Manifest.DeclaresDependency("bower") {
			fmt.Fprintln(span, "WARNING: bower is declared in package.json but node_modules/.bin/bower is missing")
		} else {
			fmt.Fprintln(span, "WARNING: bower.json found but bower is not declared in package.json; add it as a dependency")
		}
	}

	if r.restoredComponents && statErr == nil {
		fmt.Fprintln(span, "Pruning cached components not specified in bower.json")
		if err := r.runCommand(ctx, span, &domain.Command{
			Name: "bower-prune",
			Argv: []string{bower, "prune", "--allow-root"},
			Dir:  r.dirs.BuildDir,
			Env:  r.extraEnv,
		}); err != nil {
			return err
		}
	}

	return r.runCommand(ctx, span, &domain.Command{
		Name: "bower-install",
		Argv: []string{bower, "install", "--allow-root"},
		Dir:  r.dirs.BuildDir,
		Env:  r.extraEnv,
	})
}

func (r *stageRun) saveCache(_ context.Context, span ports.Span) error {
	if err := r.writeVersionMarker(); err != nil {
		return err
	}
	if err := r.writeProfileScript(); err != nil {
		return err
	}

	fingerprints := map[string]string{}
	for _, name := range []string{domain.ManifestFileName, domain.ComponentManifestFileName} {
		fp, err := r.app.cache.Fingerprint(filepath.Join(r.dirs.BuildDir, name))
		if err != nil {
			return err
		}
		if fp != "" {
			fingerprints[name] = fp
		}
	}

	fmt.Fprintln(span, "Caching dependencies for future builds")
	meta := &domain.CacheMeta{
		NodeVersion:  r.version,
		Fingerprints: fingerprints,
		SavedAt:      time.Now().UTC(),
		Generation:   domain.CacheGeneration,
	}
	trees := []string{domain.ModulesDirName, domain.ComponentsDirName}
	if err := r.app.cache.Save(r.dirs.CacheDir, r.dirs.BuildDir, meta, trees); err != nil {
		return err
	}

	fmt.Fprintln(span, "Cleaning up transient build artifacts")
	// Best effort; leftover scratch files never fail a finished run.
	_ = os.RemoveAll(domain.LogsDir(r.dirs.BuildDir))
	_ = os.RemoveAll(domain.NpmScratchDir(r.dirs.BuildDir))
	return nil
}

func (r *stageRun) runGrunt(ctx context.Context, span ports.Span) error {
	fmt.Fprintf(span, "Found %s, running grunt %s task\n", r.project.Gruntfile, r.settings.GruntTask)

	return r.runCommand(ctx, span, &domain.Command{
		Name: "grunt",
		Argv: []string{filepath.Join(domain.ModulesBinDir(r.dirs.BuildDir), "grunt"), r.settings.GruntTask},
		Dir:  r.dirs.BuildDir,
		Env:  r.extraEnv,
	})
}

// runCommand executes cmd in the staged environment, streaming combined
// output to the span and into a capture file under the state directory.
// A failed command's error carries the capture path.
func (r *stageRun) runCommand(ctx context.Context, span ports.Span, cmd *domain.Command) error {
	out := io.Writer(span)
	logPath := ""

	// Capture is best effort; a command still runs when its log cannot
	// be opened.
	if err := os.MkdirAll(domain.LogsDir(r.dirs.BuildDir), domain.DirPerm); err == nil {
		path := filepath.Join(domain.LogsDir(r.dirs.BuildDir), cmd.Name+".log")
		//nolint:gosec // Path is derived from the run's build directory
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.FilePerm); err == nil {
			defer func() { _ = f.Close() }()
			out = io.MultiWriter(span, f)
			logPath = path
		}
	}

	err := r.app.executor.Execute(ctx, cmd, r.runtimeEnv, out)
	if err == nil {
		return nil
	}

	var cmdErr *domain.CommandError
	if errors.As(err, &cmdErr) && cmdErr.LogPath == "" {
		cmdErr.LogPath = logPath
	}
	return err
}

func (r *stageRun) writeVersionMarker() error {
	if err := os.MkdirAll(domain.StateDir(r.dirs.BuildDir), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStateWriteFailed.Error())
	}
	path := domain.VersionFilePath(r.dirs.BuildDir)
	if err := os.WriteFile(path, []byte(r.version+"\n"), domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStateWriteFailed.Error())
	}
	return nil
}

// writeProfileScript persists the PATH script sourced when the staged
// application boots.
func (r *stageRun) writeProfileScript() error {
	dir := filepath.Join(r.dirs.BuildDir, domain.ProfileDirName)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrProfileWriteFailed.Error())
	}
	path := domain.ProfileScriptPath(r.dirs.BuildDir)
	//nolint:gosec // Boot scripts must be executable
	if err := os.WriteFile(path, []byte(profileScript), domain.ScriptPerm); err != nil {
		return zerr.Wrap(err, domain.ErrProfileWriteFailed.Error())
	}
	return nil
}

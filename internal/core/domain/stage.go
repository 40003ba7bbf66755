package domain

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

// StageDirs are the three directories a staging run operates on. Build
// and cache are required, the environment directory is optional.
type StageDirs struct {
	// BuildDir holds the application source and receives the runtime,
	// dependencies, and persisted state.
	BuildDir string

	// CacheDir survives between runs and holds the dependency cache.
	CacheDir string

	// EnvDir holds one file per external configuration variable. Empty
	// means no external configuration.
	EnvDir string
}

// Normalize validates the directories and makes all paths absolute. The
// build directory must exist; the cache directory is created when absent.
func (d *StageDirs) Normalize() error {
	buildDir, err := filepath.Abs(d.BuildDir)
	if err != nil {
		return zerr.Wrap(err, ErrBuildDirInvalid.Error())
	}
	info, err := os.Stat(buildDir)
	if err != nil || !info.IsDir() {
		return zerr.With(ErrBuildDirInvalid, "path", d.BuildDir)
	}
	d.BuildDir = buildDir

	cacheDir, err := filepath.Abs(d.CacheDir)
	if err != nil {
		return zerr.Wrap(err, ErrCacheDirInvalid.Error())
	}
	if err := os.MkdirAll(cacheDir, DirPerm); err != nil {
		return zerr.Wrap(err, ErrCacheDirInvalid.Error())
	}
	d.CacheDir = cacheDir

	if d.EnvDir == "" {
		return nil
	}
	envDir, err := filepath.Abs(d.EnvDir)
	if err != nil {
		return zerr.Wrap(err, ErrEnvDirReadFailed.Error())
	}
	d.EnvDir = envDir
	return nil
}

// ResolveRequest carries the run-scoped inputs of a version resolution.
type ResolveRequest struct {
	// Endpoint is the base URL of the version resolution service.
	Endpoint string

	// CacheDir is the cache directory resolutions may be memoized in.
	CacheDir string
}

// InstallRequest carries the run-scoped inputs of a runtime install.
type InstallRequest struct {
	// Version is the exact runtime version to install.
	Version string

	// Platform is the distribution platform triple, for example
	// linux-x64. Empty selects the host platform.
	Platform string

	// MirrorURL is the base URL runtime archives are downloaded from.
	MirrorURL string

	// BuildDir is the directory the runtime is unpacked into.
	BuildDir string
}

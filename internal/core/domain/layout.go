package domain

import "path/filepath"

const (
	// StateDirName is the name of the internal state directory kept
	// under the build directory.
	StateDirName = ".stagehand"

	// LogsDirName is the name of the captured command output directory.
	LogsDirName = "logs"

	// NpmScratchDirName is the name of npm's transient download cache.
	NpmScratchDirName = "npm-cache"

	// VersionFileName is the name of the persisted runtime version marker.
	VersionFileName = "node-version"

	// VendorDirName is the directory runtimes are unpacked into.
	VendorDirName = "vendor"

	// RuntimeDirName is the directory name of the installed runtime.
	RuntimeDirName = "node"

	// ModulesDirName is the npm dependency tree directory.
	ModulesDirName = "node_modules"

	// ComponentsDirName is the bower dependency tree directory.
	ComponentsDirName = "bower_components"

	// CacheNamespace is the subdirectory of the cache directory owned
	// by stagehand. Everything outside it is left untouched.
	CacheNamespace = "stagehand"

	// ResolveDirName is the resolution cache directory inside the namespace.
	ResolveDirName = "resolve"

	// MetaFileName is the cache metadata file inside the namespace.
	MetaFileName = "meta.json"

	// ManifestFileName is the npm package manifest.
	ManifestFileName = "package.json"

	// ComponentManifestFileName is the bower package manifest.
	ComponentManifestFileName = "bower.json"

	// NpmrcFileName is the per-project npm configuration file.
	NpmrcFileName = ".npmrc"

	// ProfileDirName is the directory of scripts sourced at dyno boot.
	ProfileDirName = ".profile.d"

	// ProfileScriptName is the generated runtime profile script.
	ProfileScriptName = "nodejs.sh"

	// SettingsFileName is the optional stagehand settings file.
	SettingsFileName = "stagehand.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// ScriptPerm is the permission for generated executable scripts (rwxr-xr-x).
	ScriptPerm = 0o755
)

// GruntfileNames lists the build-task configuration files that trigger a
// grunt run, in detection order.
var GruntfileNames = []string{"Gruntfile.js", "Gruntfile.coffee", "grunt.js"}

// StateDir returns the internal state directory for a build directory.
func StateDir(buildDir string) string {
	return filepath.Join(buildDir, StateDirName)
}

// LogsDir returns the captured command output directory for a build directory.
func LogsDir(buildDir string) string {
	return filepath.Join(buildDir, StateDirName, LogsDirName)
}

// NpmScratchDir returns npm's transient download cache for a build directory.
func NpmScratchDir(buildDir string) string {
	return filepath.Join(buildDir, StateDirName, NpmScratchDirName)
}

// VersionFilePath returns the persisted runtime version marker path.
func VersionFilePath(buildDir string) string {
	return filepath.Join(buildDir, StateDirName, VersionFileName)
}

// RuntimeDir returns the directory the runtime is unpacked into.
func RuntimeDir(buildDir string) string {
	return filepath.Join(buildDir, VendorDirName, RuntimeDirName)
}

// RuntimeBinDir returns the bin directory of the installed runtime.
func RuntimeBinDir(buildDir string) string {
	return filepath.Join(buildDir, VendorDirName, RuntimeDirName, "bin")
}

// ModulesBinDir returns the directory npm links package executables into.
func ModulesBinDir(buildDir string) string {
	return filepath.Join(buildDir, ModulesDirName, ".bin")
}

// CacheRoot returns the stagehand-owned namespace inside a cache directory.
func CacheRoot(cacheDir string) string {
	return filepath.Join(cacheDir, CacheNamespace)
}

// ResolveCacheDir returns the resolution cache directory inside a cache directory.
func ResolveCacheDir(cacheDir string) string {
	return filepath.Join(cacheDir, CacheNamespace, ResolveDirName)
}

// MetaFilePath returns the cache metadata path inside a cache directory.
func MetaFilePath(cacheDir string) string {
	return filepath.Join(cacheDir, CacheNamespace, MetaFileName)
}

// ProfileScriptPath returns the generated profile script path.
func ProfileScriptPath(buildDir string) string {
	return filepath.Join(buildDir, ProfileDirName, ProfileScriptName)
}

// LegacyCachePaths returns cache locations used by earlier layouts. They
// are removed whenever the cache is rewritten so a cache created by an
// old version never mixes with the namespaced layout.
func LegacyCachePaths(cacheDir string) []string {
	return []string{
		filepath.Join(cacheDir, ModulesDirName),
		filepath.Join(cacheDir, ComponentsDirName),
		filepath.Join(cacheDir, RuntimeDirName),
	}
}

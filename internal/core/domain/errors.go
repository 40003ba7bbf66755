package domain

import "go.trai.ch/zerr"

var (
	// ErrBuildDirInvalid is returned when the build directory is missing or not a directory.
	ErrBuildDirInvalid = zerr.New("build directory does not exist or is not a directory")

	// ErrCacheDirInvalid is returned when the cache directory cannot be created or opened.
	ErrCacheDirInvalid = zerr.New("cache directory does not exist and could not be created")

	// ErrManifestNotFound is returned when the application has no package.json.
	ErrManifestNotFound = zerr.New("package.json not found in build directory")

	// ErrManifestReadFailed is returned when the package manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read package manifest")

	// ErrManifestParseFailed is returned when the package manifest is not valid JSON.
	ErrManifestParseFailed = zerr.New("failed to parse package manifest")

	// ErrResolveRequestFailed is returned when the version resolution service cannot be reached.
	ErrResolveRequestFailed = zerr.New("failed to query version resolution service")

	// ErrResolveNoMatch is returned when no published version satisfies the requested range.
	ErrResolveNoMatch = zerr.New("no version matching the requested range")

	// ErrResolveParseFailed is returned when the resolution service response is not a version.
	ErrResolveParseFailed = zerr.New("failed to parse version resolution response")

	// ErrResolveCacheReadFailed is returned when a cached resolution cannot be read.
	ErrResolveCacheReadFailed = zerr.New("failed to read resolution cache")

	// ErrResolveCacheWriteFailed is returned when a resolution cannot be cached.
	ErrResolveCacheWriteFailed = zerr.New("failed to write resolution cache")

	// ErrDownloadFailed is returned when a runtime archive cannot be downloaded.
	ErrDownloadFailed = zerr.New("failed to download runtime archive")

	// ErrExtractFailed is returned when a runtime archive cannot be unpacked.
	ErrExtractFailed = zerr.New("failed to extract runtime archive")

	// ErrArchivePathEscape is returned when an archive entry would escape the target directory.
	ErrArchivePathEscape = zerr.New("archive entry escapes target directory")

	// ErrCacheRestoreFailed is returned when a cached dependency tree cannot be copied back.
	ErrCacheRestoreFailed = zerr.New("failed to restore cached dependencies")

	// ErrCacheSaveFailed is returned when the dependency snapshot cannot be written to the cache.
	ErrCacheSaveFailed = zerr.New("failed to save dependency cache")

	// ErrCachePurgeFailed is returned when stale cache contents cannot be removed.
	ErrCachePurgeFailed = zerr.New("failed to purge cache")

	// ErrMetaReadFailed is returned when cache metadata cannot be read.
	ErrMetaReadFailed = zerr.New("failed to read cache metadata")

	// ErrMetaMarshalFailed is returned when cache metadata cannot be serialized.
	ErrMetaMarshalFailed = zerr.New("failed to marshal cache metadata")

	// ErrMetaWriteFailed is returned when cache metadata cannot be written.
	ErrMetaWriteFailed = zerr.New("failed to write cache metadata")

	// ErrFingerprintFailed is returned when a manifest fingerprint cannot be computed.
	ErrFingerprintFailed = zerr.New("failed to fingerprint manifest")

	// ErrEnvDirReadFailed is returned when the external configuration directory cannot be read.
	ErrEnvDirReadFailed = zerr.New("failed to read environment directory")

	// ErrConfigReadFailed is returned when the settings file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read settings file")

	// ErrConfigParseFailed is returned when the settings file is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse settings file")

	// ErrStateWriteFailed is returned when persisted state under the build directory cannot be written.
	ErrStateWriteFailed = zerr.New("failed to write build state")

	// ErrProfileWriteFailed is returned when the runtime profile script cannot be written.
	ErrProfileWriteFailed = zerr.New("failed to write profile script")

	// ErrStagingFailed signals that staging ran and failed; details were already reported.
	ErrStagingFailed = zerr.New("staging failed")
)

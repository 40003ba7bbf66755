package ports

import "github.com/stagehand-dev/stagehand/internal/core/domain"

// CacheStore manages the dependency cache kept between staging runs.
// All operations take the cache directory explicitly; the store itself
// is stateless.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type CacheStore interface {
	// Meta reads the cache metadata. It returns (nil, nil) when the
	// cache is empty or was written by a layout this store cannot read.
	Meta(cacheDir string) (*domain.CacheMeta, error)

	// Restore copies the named cached tree into the build directory.
	// It reports false when the tree is not in the cache.
	Restore(cacheDir, buildDir, tree string) (bool, error)

	// Save rewrites the cache from scratch: the namespace and any
	// legacy locations are purged, then the named trees are copied in
	// from the build directory and the metadata is written. Trees
	// missing from the build directory are skipped.
	Save(cacheDir, buildDir string, meta *domain.CacheMeta, trees []string) error

	// Purge removes everything the store ever writes under cacheDir.
	Purge(cacheDir string) error

	// Fingerprint hashes a file's contents for change detection. It
	// returns an empty string when the file does not exist.
	Fingerprint(path string) (string, error)
}

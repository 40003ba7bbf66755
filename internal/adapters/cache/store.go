// Package cache implements the CacheStore port on the filesystem.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/stagehand-dev/stagehand/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.CacheStore. All operations take the cache
// directory explicitly; the store itself is stateless.
type Store struct{}

// NewStore creates a filesystem-backed CacheStore.
func NewStore() *Store {
	return &Store{}
}

// Meta reads the cache metadata. Missing, corrupt, and half-written
// metadata all report (nil, nil): the cache is treated as absent, never
// as a build failure.
func (s *Store) Meta(cacheDir string) (*domain.CacheMeta, error) {
	//nolint:gosec // Path is derived from the run's cache directory
	data, err := os.ReadFile(domain.MetaFilePath(cacheDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrMetaReadFailed.Error())
	}

	var meta domain.CacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, nil
	}

	return &meta, nil
}

// Restore copies the named cached tree into the build directory. It
// reports false when the tree is not in the cache.
func (s *Store) Restore(cacheDir, buildDir, tree string) (bool, error) {
	src := filepath.Join(domain.CacheRoot(cacheDir), tree)
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.Wrap(err, domain.ErrCacheRestoreFailed.Error())
	}
	if !info.IsDir() {
		return false, nil
	}

	if err := os.CopyFS(filepath.Join(buildDir, tree), os.DirFS(src)); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrCacheRestoreFailed.Error()), "tree", tree)
	}

	return true, nil
}

// Save rewrites the cache from scratch: the namespace and any legacy
// locations are purged so no stale entries survive, then the named
// trees are copied in from the build directory. The metadata is written
// last; its presence implies the trees before it are complete.
func (s *Store) Save(cacheDir, buildDir string, meta *domain.CacheMeta, trees []string) error {
	if err := s.Purge(cacheDir); err != nil {
		return err
	}

	root := domain.CacheRoot(cacheDir)
	if err := os.MkdirAll(root, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheSaveFailed.Error())
	}

	for _, tree := range trees {
		src := filepath.Join(buildDir, tree)
		if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := os.CopyFS(filepath.Join(root, tree), os.DirFS(src)); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrCacheSaveFailed.Error()), "tree", tree)
		}
	}

	return s.writeMeta(domain.MetaFilePath(cacheDir), meta)
}

// Purge removes the namespace and every legacy cache location.
func (s *Store) Purge(cacheDir string) error {
	paths := append([]string{domain.CacheRoot(cacheDir)}, domain.LegacyCachePaths(cacheDir)...)
	for _, path := range paths {
		if err := os.RemoveAll(path); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrCachePurgeFailed.Error()), "path", path)
		}
	}
	return nil
}

// Fingerprint hashes a file's contents for change detection. A missing
// file fingerprints as the empty string.
func (s *Store) Fingerprint(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", zerr.With(zerr.Wrap(err, domain.ErrFingerprintFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFingerprintFailed.Error()), "path", path)
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (s *Store) writeMeta(path string, meta *domain.CacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrMetaMarshalFailed.Error())
	}

	//nolint:gosec // Path is derived from the run's cache directory
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrMetaWriteFailed.Error())
	}

	return nil
}

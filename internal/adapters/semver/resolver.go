// Package semver implements the VersionResolver port against a
// plain-text semver resolution service.
package semver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	sv "github.com/Masterminds/semver/v3"
	"github.com/stagehand-dev/stagehand/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	httpClientTimeout = 30 * time.Second

	// resolutionTTL bounds how long a memoized resolution is served
	// before the service is asked again. A range is a moving target;
	// newly published versions must be picked up within this window.
	resolutionTTL = time.Hour
)

// Resolver implements ports.VersionResolver. The service answers a GET
// carrying the range with the newest satisfying version as plain text.
// Resolutions are memoized on disk under the run's cache directory.
type Resolver struct {
	httpClient *http.Client
}

// NewResolver creates a VersionResolver backed by the remote service.
func NewResolver() *Resolver {
	return &Resolver{
		httpClient: &http.Client{
			Timeout: httpClientTimeout,
		},
	}
}

// newResolverWithClient creates a Resolver with a custom http client (used for testing).
func newResolverWithClient(client *http.Client) *Resolver {
	return &Resolver{httpClient: client}
}

// Resolve resolves a semver range to a concrete version. It checks the
// memo first, then queries the resolution service. The empty range is
// valid and resolves to the service's default version.
func (r *Resolver) Resolve(ctx context.Context, rng string, req domain.ResolveRequest) (string, error) {
	rng = strings.TrimSpace(rng)

	memoPath := memoPath(req.CacheDir, req.Endpoint, rng)
	version, err := r.loadFromCache(memoPath)
	if err == nil {
		return version, nil
	}

	version, err = r.queryService(ctx, req.Endpoint, rng)
	if err != nil {
		return "", err
	}

	// A failed memo write is not fatal; the next run queries again.
	_ = r.saveToCache(memoPath, req.Endpoint, rng, version)

	return version, nil
}

// cacheEntry is the persisted form of a memoized resolution.
type cacheEntry struct {
	Range     string    `json:"range"`
	Endpoint  string    `json:"endpoint"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// memoPath returns the memo file path for an endpoint and range pair.
func memoPath(cacheDir, endpoint, rng string) string {
	hash := sha256.Sum256([]byte(endpoint + "\x00" + rng))
	return filepath.Join(domain.ResolveCacheDir(cacheDir), hex.EncodeToString(hash[:])+".json")
}

// loadFromCache returns the memoized version stored at path. Missing,
// unreadable, corrupt, and expired entries all report an error so the
// caller falls through to the service.
func (r *Resolver) loadFromCache(path string) (string, error) {
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.ErrResolveCacheReadFailed
		}
		return "", zerr.Wrap(err, domain.ErrResolveCacheReadFailed.Error())
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", zerr.Wrap(err, domain.ErrResolveCacheReadFailed.Error())
	}

	if entry.Version == "" || time.Since(entry.Timestamp) > resolutionTTL {
		return "", domain.ErrResolveCacheReadFailed
	}

	return entry.Version, nil
}

// saveToCache memoizes a resolution at path.
func (r *Resolver) saveToCache(path, endpoint, rng, version string) error {
	entry := cacheEntry{
		Range:     rng,
		Endpoint:  endpoint,
		Version:   version,
		Timestamp: time.Now(),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrResolveCacheWriteFailed.Error())
	}

	if err := atomicWriteFile(path, data); err != nil {
		return zerr.Wrap(err, domain.ErrResolveCacheWriteFailed.Error())
	}

	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "resolve-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// queryService asks the resolution service for the newest version
// satisfying rng.
func (r *Resolver) queryService(ctx context.Context, endpoint, rng string) (string, error) {
	requestURL := endpoint + "?range=" + url.QueryEscape(rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrResolveRequestFailed.Error())
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrResolveRequestFailed.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return "", zerr.With(domain.ErrResolveNoMatch, "range", rng)
	}

	if resp.StatusCode != http.StatusOK {
		reqErr := zerr.With(domain.ErrResolveRequestFailed, "status_code", resp.StatusCode)
		return "", zerr.With(reqErr, "range", rng)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrResolveRequestFailed.Error())
	}

	version := strings.TrimSpace(string(body))
	if _, err := sv.NewVersion(version); err != nil {
		parseErr := zerr.With(domain.ErrResolveParseFailed, "range", rng)
		return "", zerr.With(parseErr, "body", snippet(version))
	}

	return version, nil
}

// snippet bounds a response body for error metadata.
func snippet(s string) string {
	const limit = 64
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

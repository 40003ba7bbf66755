// Package distribution implements the RuntimeInstaller port against a
// node distribution mirror.
package distribution

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/stagehand-dev/stagehand/internal/core/domain"
	"go.trai.ch/zerr"
)

// httpClientTimeout covers the full archive body read, not just the
// response headers.
const httpClientTimeout = 5 * time.Minute

// Installer implements ports.RuntimeInstaller. It downloads a runtime
// archive from the mirror and unpacks it into the build directory's
// vendor tree.
type Installer struct {
	httpClient *http.Client
}

// NewInstaller creates a RuntimeInstaller backed by the remote mirror.
func NewInstaller() *Installer {
	return &Installer{
		httpClient: &http.Client{
			Timeout: httpClientTimeout,
		},
	}
}

// newInstallerWithClient creates an Installer with a custom http client (used for testing).
func newInstallerWithClient(client *http.Client) *Installer {
	return &Installer{httpClient: client}
}

// Install downloads and unpacks the requested runtime. It returns the
// environment entries that put the runtime and the project's package
// executables on PATH.
func (i *Installer) Install(ctx context.Context, req domain.InstallRequest) ([]string, error) {
	platform := req.Platform
	if platform == "" {
		platform = hostPlatform()
	}

	archivePath, err := i.download(ctx, distributionURL(req.MirrorURL, req.Version, platform))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = os.Remove(archivePath)
	}()

	// The previous install is only removed once the new archive is on disk.
	target := domain.RuntimeDir(req.BuildDir)
	if err := os.RemoveAll(target); err != nil {
		return nil, zerr.Wrap(err, domain.ErrExtractFailed.Error())
	}
	if err := os.MkdirAll(target, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, domain.ErrExtractFailed.Error())
	}

	if err := extractTarGz(archivePath, target); err != nil {
		return nil, zerr.Wrap(err, domain.ErrExtractFailed.Error())
	}

	return []string{
		"PATH=" + domain.RuntimeBinDir(req.BuildDir) + ":" + domain.ModulesBinDir(req.BuildDir),
	}, nil
}

// distributionURL returns the archive URL for a version and platform.
func distributionURL(mirror, version, platform string) string {
	return fmt.Sprintf("%s/v%s/node-v%s-%s.tar.gz", mirror, version, version, platform)
}

// download fetches the archive into a temp file and returns its path.
// The caller removes the file.
func (i *Installer) download(ctx context.Context, archiveURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, http.NoBody)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrDownloadFailed.Error())
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrDownloadFailed.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		dlErr := zerr.With(domain.ErrDownloadFailed, "status_code", resp.StatusCode)
		return "", zerr.With(dlErr, "url", archiveURL)
	}

	tmpFile, err := os.CreateTemp("", "node-*.tar.gz")
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrDownloadFailed.Error())
	}
	tmpName := tmpFile.Name()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpName)
		return "", zerr.Wrap(err, domain.ErrDownloadFailed.Error())
	}

	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", zerr.Wrap(err, domain.ErrDownloadFailed.Error())
	}

	return tmpName, nil
}

package distribution_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stagehand-dev/stagehand/internal/adapters/distribution"
	"github.com/stagehand-dev/stagehand/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper is a helper to mock http.Client behavior.
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) *http.Response
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req), nil
}

func newMockClient(handler func(req *http.Request) *http.Response) *http.Client {
	return &http.Client{
		Transport: &MockRoundTripper{RoundTripFunc: handler},
	}
}

func binaryResponse(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
	}
}

type tarEntry struct {
	name     string
	mode     int64
	typeflag byte
	content  string
	linkname string
}

func makeTarball(t *testing.T, entries []tarEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.name,
			Mode:     e.mode,
			Typeflag: e.typeflag,
			Linkname: e.linkname,
			Size:     int64(len(e.content)),
		}
		require.NoError(t, tarWriter.WriteHeader(hdr))
		if e.typeflag == tar.TypeReg {
			_, err := tarWriter.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}

	require.NoError(t, tarWriter.Close())
	require.NoError(t, gzipWriter.Close())
	return buf.Bytes()
}

// nodeTarball mimics the layout of a real runtime archive: a single
// versioned root directory with bin/ and the bundled npm symlink.
func nodeTarball(t *testing.T) []byte {
	t.Helper()
	const root = "node-v0.10.30-linux-x64"
	return makeTarball(t, []tarEntry{
		{name: root + "/", mode: 0o755, typeflag: tar.TypeDir},
		{name: root + "/bin/", mode: 0o755, typeflag: tar.TypeDir},
		{name: root + "/bin/node", mode: 0o755, typeflag: tar.TypeReg, content: "#!elf"},
		{name: root + "/lib/node_modules/npm/bin/npm-cli.js", mode: 0o755, typeflag: tar.TypeReg, content: "require('npm')"},
		{name: root + "/bin/npm", mode: 0o777, typeflag: tar.TypeSymlink, linkname: "../lib/node_modules/npm/bin/npm-cli.js"},
	})
}

func writeArchive(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.tar.gz")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestInstaller_Install(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		buildDir := t.TempDir()
		archive := nodeTarball(t)

		var gotURL string
		client := newMockClient(func(req *http.Request) *http.Response {
			gotURL = req.URL.String()
			return binaryResponse(http.StatusOK, archive)
		})

		installer := distribution.NewInstallerWithClient(client)
		env, err := installer.Install(context.Background(), domain.InstallRequest{
			Version:   "0.10.30",
			Platform:  "linux-x64",
			MirrorURL: "https://mirror.test/dist",
			BuildDir:  buildDir,
		})
		require.NoError(t, err)

		assert.Equal(t, "https://mirror.test/dist/v0.10.30/node-v0.10.30-linux-x64.tar.gz", gotURL)

		info, err := os.Stat(filepath.Join(buildDir, "vendor", "node", "bin", "node"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

		link, err := os.Readlink(filepath.Join(buildDir, "vendor", "node", "bin", "npm"))
		require.NoError(t, err)
		assert.Equal(t, "../lib/node_modules/npm/bin/npm-cli.js", link)

		require.Len(t, env, 1)
		wantPath := "PATH=" + filepath.Join(buildDir, "vendor", "node", "bin") + ":" + filepath.Join(buildDir, "node_modules", ".bin")
		assert.Equal(t, wantPath, env[0])
	})

	t.Run("DefaultsToHostPlatform", func(t *testing.T) {
		var gotURL string
		client := newMockClient(func(req *http.Request) *http.Response {
			gotURL = req.URL.String()
			return binaryResponse(http.StatusOK, nodeTarball(t))
		})

		installer := distribution.NewInstallerWithClient(client)
		_, err := installer.Install(context.Background(), domain.InstallRequest{
			Version:   "0.10.30",
			MirrorURL: "https://mirror.test/dist",
			BuildDir:  t.TempDir(),
		})
		require.NoError(t, err)
		assert.Contains(t, gotURL, distribution.HostPlatform())
	})

	t.Run("ReplacesPreviousRuntime", func(t *testing.T) {
		buildDir := t.TempDir()
		staleFile := filepath.Join(buildDir, "vendor", "node", "stale.txt")
		require.NoError(t, os.MkdirAll(filepath.Dir(staleFile), 0o750))
		require.NoError(t, os.WriteFile(staleFile, []byte("old"), 0o644))

		client := newMockClient(func(_ *http.Request) *http.Response {
			return binaryResponse(http.StatusOK, nodeTarball(t))
		})

		installer := distribution.NewInstallerWithClient(client)
		_, err := installer.Install(context.Background(), domain.InstallRequest{
			Version:   "0.10.30",
			Platform:  "linux-x64",
			MirrorURL: "https://mirror.test/dist",
			BuildDir:  buildDir,
		})
		require.NoError(t, err)

		assert.NoFileExists(t, staleFile)
		assert.FileExists(t, filepath.Join(buildDir, "vendor", "node", "bin", "node"))
	})

	t.Run("DownloadFailureKeepsPreviousRuntime", func(t *testing.T) {
		buildDir := t.TempDir()
		marker := filepath.Join(buildDir, "vendor", "node", "bin", "node")
		require.NoError(t, os.MkdirAll(filepath.Dir(marker), 0o750))
		require.NoError(t, os.WriteFile(marker, []byte("previous"), 0o755))

		client := newMockClient(func(_ *http.Request) *http.Response {
			return binaryResponse(http.StatusNotFound, []byte("no such archive"))
		})

		installer := distribution.NewInstallerWithClient(client)
		_, err := installer.Install(context.Background(), domain.InstallRequest{
			Version:   "9.9.9",
			Platform:  "linux-x64",
			MirrorURL: "https://mirror.test/dist",
			BuildDir:  buildDir,
		})
		require.ErrorContains(t, err, domain.ErrDownloadFailed.Error())
		assert.FileExists(t, marker)
	})

	t.Run("CorruptArchive", func(t *testing.T) {
		client := newMockClient(func(_ *http.Request) *http.Response {
			return binaryResponse(http.StatusOK, []byte("definitely not gzip"))
		})

		installer := distribution.NewInstallerWithClient(client)
		_, err := installer.Install(context.Background(), domain.InstallRequest{
			Version:   "0.10.30",
			Platform:  "linux-x64",
			MirrorURL: "https://mirror.test/dist",
			BuildDir:  t.TempDir(),
		})
		require.ErrorContains(t, err, domain.ErrExtractFailed.Error())
	})
}

func TestExtractTarGz_RejectsEscapes(t *testing.T) {
	tests := []struct {
		name    string
		entries []tarEntry
	}{
		{
			name: "EntryTraversal",
			entries: []tarEntry{
				{name: "root/../../evil.txt", mode: 0o644, typeflag: tar.TypeReg, content: "x"},
			},
		},
		{
			name: "AbsoluteSymlink",
			entries: []tarEntry{
				{name: "root/bin/evil", mode: 0o777, typeflag: tar.TypeSymlink, linkname: "/etc/passwd"},
			},
		},
		{
			name: "RelativeSymlinkOut",
			entries: []tarEntry{
				{name: "root/bin/evil", mode: 0o777, typeflag: tar.TypeSymlink, linkname: "../../../../etc/passwd"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := writeArchive(t, makeTarball(t, tt.entries))
			err := distribution.ExtractTarGz(archive, t.TempDir())
			require.ErrorContains(t, err, domain.ErrArchivePathEscape.Error())
		})
	}
}

func TestExtractTarGz_SkipsBareRootEntry(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, makeTarball(t, []tarEntry{
		{name: "root", mode: 0o755, typeflag: tar.TypeDir},
		{name: "root/file.txt", mode: 0o644, typeflag: tar.TypeReg, content: "hello"},
	}))

	require.NoError(t, distribution.ExtractTarGz(archive, dir))
	assert.FileExists(t, filepath.Join(dir, "file.txt"))
	assert.NoDirExists(t, filepath.Join(dir, "root"))
}

func TestDistributionURL(t *testing.T) {
	got := distribution.DistributionURL("https://nodejs.org/dist", "0.10.30", "linux-x64")
	assert.Equal(t, "https://nodejs.org/dist/v0.10.30/node-v0.10.30-linux-x64.tar.gz", got)
}

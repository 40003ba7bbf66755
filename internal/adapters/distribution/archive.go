package distribution

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/stagehand-dev/stagehand/internal/core/domain"
	"go.trai.ch/zerr"
)

// extractTarGz unpacks a gzipped tarball into dir, dropping the
// archive's single top-level directory. Entries and symlink targets
// that would land outside dir are rejected.
func extractTarGz(archivePath, dir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	gzipReader, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer func() {
		_ = gzipReader.Close()
	}()

	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		name := stripRoot(header.Name)
		if name == "" {
			continue
		}

		dest, err := secureJoin(dir, name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, header.FileInfo().Mode()); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(dest, tarReader, header.FileInfo().Mode()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			// Runtime tarballs link bin/npm to the bundled npm package.
			if err := writeSymlink(dest, header.Linkname, dir); err != nil {
				return err
			}
		}
	}

	return nil
}

// stripRoot drops the leading path component of a tar entry name.
func stripRoot(name string) string {
	name = strings.TrimPrefix(name, "./")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return ""
}

// secureJoin joins name under dir, rejecting names that escape it.
func secureJoin(dir, name string) (string, error) {
	dest := filepath.Join(dir, name)
	if !strings.HasPrefix(dest, filepath.Clean(dir)+string(os.PathSeparator)) {
		return "", zerr.With(domain.ErrArchivePathEscape, "entry", name)
	}
	return dest, nil
}

func writeEntry(dest string, r io.Reader, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return err
	}

	//nolint:gosec // Destination is confined to dir by secureJoin
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	// OpenFile masks the mode with the umask; the archive mode is
	// authoritative.
	return os.Chmod(dest, mode)
}

func writeSymlink(dest, linkname, dir string) error {
	if filepath.IsAbs(linkname) {
		return zerr.With(domain.ErrArchivePathEscape, "link", linkname)
	}
	resolved := filepath.Join(filepath.Dir(dest), linkname)
	if !strings.HasPrefix(resolved, filepath.Clean(dir)+string(os.PathSeparator)) {
		return zerr.With(domain.ErrArchivePathEscape, "link", linkname)
	}

	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return err
	}

	// Archives may carry duplicate entries; replace, never append.
	_ = os.Remove(dest)
	return os.Symlink(linkname, dest)
}

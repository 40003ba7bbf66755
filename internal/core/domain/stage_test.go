package domain_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stagehand-dev/stagehand/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageDirsNormalize(t *testing.T) {
	t.Run("makes paths absolute and creates cache dir", func(t *testing.T) {
		root := t.TempDir()
		buildDir := filepath.Join(root, "app")
		require.NoError(t, os.MkdirAll(buildDir, 0o750))

		dirs := domain.StageDirs{
			BuildDir: buildDir,
			CacheDir: filepath.Join(root, "cache"),
			EnvDir:   filepath.Join(root, "env"),
		}
		require.NoError(t, dirs.Normalize())

		assert.True(t, filepath.IsAbs(dirs.BuildDir))
		assert.True(t, filepath.IsAbs(dirs.CacheDir))
		assert.True(t, filepath.IsAbs(dirs.EnvDir))
		assert.DirExists(t, dirs.CacheDir)
	})

	t.Run("missing build dir", func(t *testing.T) {
		dirs := domain.StageDirs{
			BuildDir: filepath.Join(t.TempDir(), "nope"),
			CacheDir: t.TempDir(),
		}
		err := dirs.Normalize()
		require.ErrorContains(t, err, domain.ErrBuildDirInvalid.Error())
	})

	t.Run("build dir is a file", func(t *testing.T) {
		root := t.TempDir()
		file := filepath.Join(root, "app")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		dirs := domain.StageDirs{BuildDir: file, CacheDir: filepath.Join(root, "cache")}
		err := dirs.Normalize()
		require.ErrorContains(t, err, domain.ErrBuildDirInvalid.Error())
	})

	t.Run("env dir stays empty when unset", func(t *testing.T) {
		dirs := domain.StageDirs{BuildDir: t.TempDir(), CacheDir: t.TempDir()}
		require.NoError(t, dirs.Normalize())
		assert.Empty(t, dirs.EnvDir)
	})
}

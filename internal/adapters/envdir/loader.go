// Package envdir reads external configuration variables from an
// environment directory: one file per variable, the file name is the
// key and the file contents are the value.
package envdir

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/stagehand-dev/stagehand/internal/core/domain"
	"github.com/stagehand-dev/stagehand/internal/core/ports"
	"go.trai.ch/zerr"
)

// denied are keys that would let external configuration hijack the
// staged environment or the toolchain. They are never exported.
var denied = map[string]struct{}{
	"PATH":         {},
	"GIT_DIR":      {},
	"CPATH":        {},
	"CPPATH":       {},
	"LD_PRELOAD":   {},
	"LIBRARY_PATH": {},
}

// Loader implements ports.EnvLoader.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates an environment directory loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads all variables from envDir. Values lose trailing newlines,
// matching shell command substitution. Subdirectories are skipped and
// denied keys are dropped with a warning.
func (l *Loader) Load(envDir string) (map[string]string, error) {
	vars := map[string]string{}
	if envDir == "" {
		return vars, nil
	}

	entries, err := os.ReadDir(envDir)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("environment directory " + envDir + " does not exist")
		return vars, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrEnvDirReadFailed.Error()), "dir", envDir)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key := entry.Name()
		if _, blocked := denied[key]; blocked {
			l.logger.Warn("ignoring " + key + " from environment directory")
			continue
		}

		data, err := os.ReadFile(filepath.Join(envDir, key))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrEnvDirReadFailed.Error()), "key", key)
		}
		vars[key] = strings.TrimRight(string(data), "\r\n")
	}

	return vars, nil
}

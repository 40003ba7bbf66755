// Package config loads run settings from the build directory and the
// environment.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/stagehand-dev/stagehand/internal/core/domain"
	"github.com/stagehand-dev/stagehand/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment overrides. They take precedence over the settings file.
const (
	EnvResolverURL = "STAGEHAND_RESOLVER_URL"
	EnvMirrorURL   = "STAGEHAND_MIRROR_URL"
	EnvGruntTask   = "STAGEHAND_GRUNT_TASK"
	EnvPlatform    = "STAGEHAND_PLATFORM"
)

// knownPlatforms are the distribution platform triples published on the
// default mirror. Other values are accepted with a warning so custom
// mirrors can host additional platforms.
var knownPlatforms = map[string]struct{}{
	"linux-x64":    {},
	"linux-arm64":  {},
	"linux-armv7l": {},
	"darwin-x64":   {},
	"darwin-arm64": {},
}

// Loader implements ports.SettingsLoader.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a settings loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load builds a run's settings: defaults, then stagehand.yaml from the
// build directory, then STAGEHAND_* environment variables.
func (l *Loader) Load(buildDir string) (*domain.Settings, error) {
	settings := domain.DefaultSettings()

	path := filepath.Join(buildDir, domain.SettingsFileName)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No settings file is the common case.
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	default:
		if err := applyFile(settings, data); err != nil {
			return nil, zerr.With(err, "path", path)
		}
	}

	applyEnv(settings)

	if settings.Platform != "" {
		if _, ok := knownPlatforms[settings.Platform]; !ok {
			l.logger.Warn("platform " + settings.Platform + " is not published on the default mirror")
		}
	}

	return settings, nil
}

func applyFile(settings *domain.Settings, data []byte) error {
	var file settingsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	if file.ResolverURL != "" {
		settings.ResolverURL = file.ResolverURL
	}
	if file.MirrorURL != "" {
		settings.MirrorURL = file.MirrorURL
	}
	if file.GruntTask != "" {
		settings.GruntTask = file.GruntTask
	}
	if file.Platform != "" {
		settings.Platform = file.Platform
	}
	return nil
}

func applyEnv(settings *domain.Settings) {
	if v := os.Getenv(EnvResolverURL); v != "" {
		settings.ResolverURL = v
	}
	if v := os.Getenv(EnvMirrorURL); v != "" {
		settings.MirrorURL = v
	}
	if v := os.Getenv(EnvGruntTask); v != "" {
		settings.GruntTask = v
	}
	if v := os.Getenv(EnvPlatform); v != "" {
		settings.Platform = v
	}
}

package ports

import "github.com/stagehand-dev/stagehand/internal/core/domain"

// SettingsLoader loads run settings from defaults, the optional
// settings file in the build directory, and environment overrides.
//
//go:generate mockgen -source=settings.go -destination=mocks/mock_settings.go -package=mocks
type SettingsLoader interface {
	Load(buildDir string) (*domain.Settings, error)
}

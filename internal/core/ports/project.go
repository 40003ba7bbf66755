package ports

import "github.com/stagehand-dev/stagehand/internal/core/domain"

// ProjectReader inspects the application in the build directory.
//
//go:generate mockgen -source=project.go -destination=mocks/mock_project.go -package=mocks
type ProjectReader interface {
	// Read parses the package manifest and detects the optional
	// project files staging reacts to. It returns
	// domain.ErrManifestNotFound when there is no package.json.
	Read(buildDir string) (*domain.Project, error)
}

package ports

import (
	"context"

	"github.com/stagehand-dev/stagehand/internal/core/domain"
)

// RuntimeInstaller downloads and unpacks a runtime distribution.
//
//go:generate mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type RuntimeInstaller interface {
	// Install places the requested runtime under the build directory's
	// vendor tree, replacing any previous install.
	//
	// It returns environment entries in "KEY=VALUE" format that put the
	// runtime and the project's package executables on PATH.
	Install(ctx context.Context, req domain.InstallRequest) ([]string, error)
}

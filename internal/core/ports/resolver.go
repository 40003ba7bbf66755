package ports

import (
	"context"

	"github.com/stagehand-dev/stagehand/internal/core/domain"
)

// VersionResolver turns a semver range into an exact runtime version.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type VersionResolver interface {
	// Resolve queries the resolution service for the newest version
	// satisfying rng. Results are memoized on disk under req.CacheDir
	// for a short window so retried runs do not requery the service.
	//
	// It returns domain.ErrResolveNoMatch when no published version
	// satisfies the range.
	Resolve(ctx context.Context, rng string, req domain.ResolveRequest) (string, error)
}

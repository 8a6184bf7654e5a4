package ports

import (
	"context"

	"sbom-age/internal/types"
)

// RegistryPort resolves release dates and latest versions for one
// ecosystem. Implementations return an empty result (not an error) when
// the registry simply has no answer; errors are reserved for transport and
// decode failures, and callers treat both outcomes as "unresolved".
type RegistryPort interface {
	Ecosystem() types.Ecosystem
	ResolveReleaseDate(ctx context.Context, coordinate types.PackageCoordinate) (types.ResolutionResult, error)
	ResolveLatestVersion(ctx context.Context, coordinate types.PackageCoordinate) (types.LatestVersionResult, error)
}

package types

import "fmt"

// MavenVersionUnspecified is the placeholder some SBOM generators emit for
// maven components without a resolved version. Coordinates carrying it are
// treated as unresolvable rather than malformed.
const MavenVersionUnspecified = "unspecified"

// PackageCoordinate identifies one component by its origin ecosystem.
// Maven coordinates use Group and Artifact; every other ecosystem uses
// Name, which may contain namespace separators (e.g. scoped npm names).
type PackageCoordinate struct {
	Ecosystem Ecosystem
	Group     string
	Artifact  string
	Name      string
	Version   string
	PURL      string
}

// DisplayName returns the coordinate without its version.
func (c PackageCoordinate) DisplayName() string {
	if c.Ecosystem == EcosystemMaven {
		return fmt.Sprintf("%s:%s", c.Group, c.Artifact)
	}
	return c.Name
}

// Resolvable reports whether the coordinate carries a version a registry
// can be asked about.
func (c PackageCoordinate) Resolvable() bool {
	if c.Version == "" {
		return false
	}
	if c.Ecosystem == EcosystemMaven && c.Version == MavenVersionUnspecified {
		return false
	}
	return true
}

// ReleaseKey is the cache key for the coordinate's release date.
// Layout: release:{ecosystem}:{group-or-name}:{artifact-or-empty}:{version}
func (c PackageCoordinate) ReleaseKey() string {
	return ReleaseKeyFor(c, c.Version)
}

// ReleaseKeyFor builds a release-date cache key for an arbitrary version of
// the same coordinate. Used when validating a discovered latest version.
func ReleaseKeyFor(c PackageCoordinate, version string) string {
	if c.Ecosystem == EcosystemMaven {
		return fmt.Sprintf("release:%s:%s:%s:%s", c.Ecosystem, c.Group, c.Artifact, version)
	}
	return fmt.Sprintf("release:%s:%s::%s", c.Ecosystem, c.Name, version)
}

// LatestKey is the cache key for the coordinate's latest-version lookup.
func (c PackageCoordinate) LatestKey() string {
	return fmt.Sprintf("latest:%s:%s", c.Ecosystem, c.DisplayName())
}

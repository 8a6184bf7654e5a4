package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	maven := PackageCoordinate{Ecosystem: EcosystemMaven, Group: "com.example", Artifact: "lib"}
	assert.Equal(t, "com.example:lib", maven.DisplayName())

	npm := PackageCoordinate{Ecosystem: EcosystemNpm, Name: "@scope/name"}
	assert.Equal(t, "@scope/name", npm.DisplayName())
}

func TestResolvable(t *testing.T) {
	assert.True(t, PackageCoordinate{Ecosystem: EcosystemNpm, Name: "left-pad", Version: "1.0.0"}.Resolvable())
	assert.False(t, PackageCoordinate{Ecosystem: EcosystemNpm, Name: "left-pad"}.Resolvable())
	assert.False(t, PackageCoordinate{Ecosystem: EcosystemMaven, Group: "g", Artifact: "a", Version: MavenVersionUnspecified}.Resolvable())
	// the sentinel is maven-specific
	assert.True(t, PackageCoordinate{Ecosystem: EcosystemNpm, Name: "unspecified", Version: "unspecified"}.Resolvable())
}

func TestCacheKeys(t *testing.T) {
	maven := PackageCoordinate{Ecosystem: EcosystemMaven, Group: "com.example", Artifact: "lib", Version: "1.0.0"}
	assert.Equal(t, "release:maven:com.example:lib:1.0.0", maven.ReleaseKey())
	assert.Equal(t, "release:maven:com.example:lib:2.0.0", ReleaseKeyFor(maven, "2.0.0"))
	assert.Equal(t, "latest:maven:com.example:lib", maven.LatestKey())

	pypi := PackageCoordinate{Ecosystem: EcosystemPyPI, Name: "requests", Version: "2.31.0"}
	assert.Equal(t, "release:pypi:requests::2.31.0", pypi.ReleaseKey())
	assert.Equal(t, "latest:pypi:requests", pypi.LatestKey())
}

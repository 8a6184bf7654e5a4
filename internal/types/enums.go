package types

type Ecosystem string

const (
	EcosystemPyPI      Ecosystem = "pypi"
	EcosystemNpm       Ecosystem = "npm"
	EcosystemMaven     Ecosystem = "maven"
	EcosystemCargo     Ecosystem = "cargo"
	EcosystemCocoaPods Ecosystem = "cocoapods"
	EcosystemOther     Ecosystem = "other"
)

// Verdict is the result of comparing a discovered latest version against
// the component's current version.
type Verdict string

const (
	VerdictNewer    Verdict = "newer"
	VerdictNotNewer Verdict = "not-newer"
	VerdictUnknown  Verdict = "unknown"
)

// Provenance tags identifying which resolver tier produced a value.
const (
	SourceRegistryAPI    = "registry-api"
	SourceSearchAPI      = "search-api"
	SourceCentralPom     = "central-pom-header"
	SourceGooglePom      = "google-pom-header"
	SourceCentralMeta    = "central-metadata"
	SourceGoogleMeta     = "google-metadata"
	SourceGoogleListing  = "google-directory-listing"
	SourceArtifactSearch = "artifact-search"
	SourceCache          = "cache"
)

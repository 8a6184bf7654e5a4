package ports

import "sbom-age/internal/types"

// SBOMPort loads a CycloneDX document from disk. Load failures are the
// only fatal error class in the system.
type SBOMPort interface {
	LoadSBOM(path string) (types.SBOMDocument, error)
}

// IgnorePort loads and evaluates the ignore list. Match returns the reason
// of the first matching entry; ok is false when nothing matches.
type IgnorePort interface {
	LoadIgnoreFile(path string) error
	Match(purl string) (reason string, ok bool)
}

// ManifestPort reads package names from a dependency manifest used to
// restrict the analysis to components actually declared by the project.
type ManifestPort interface {
	LoadNames(path string) (map[string]struct{}, error)
}

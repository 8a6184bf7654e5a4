package types

import "time"

// ResolutionResult is the outcome of a release-date lookup. ReleaseDate is
// nil when no resolver tier produced a value; Source names the tier that
// did (or is empty).
type ResolutionResult struct {
	ReleaseDate *time.Time
	Source      string
}

// Empty reports whether no tier produced a release date.
func (r ResolutionResult) Empty() bool {
	return r.ReleaseDate == nil
}

// LatestVersionResult is the outcome of a latest-version lookup. Version is
// empty when nothing was discovered. Validated is set once the candidate
// passed shape or release-date validation, and Verdict compares it against
// the component's current version.
type LatestVersionResult struct {
	Version   string
	Source    string
	Validated bool
	Verdict   Verdict
}

// Empty reports whether no latest version was discovered.
func (r LatestVersionResult) Empty() bool {
	return r.Version == ""
}

// AlarmRecord is produced for every component whose resolved release date
// is older than the configured threshold. Records are immutable once
// created and are not persisted.
type AlarmRecord struct {
	Coordinate  PackageCoordinate
	ReleaseDate time.Time
	AgeDays     int
	Latest      *LatestVersionResult
}

// UpdateAvailable reports whether a validated newer version is attached.
func (a AlarmRecord) UpdateAvailable() bool {
	return a.Latest != nil && a.Latest.Validated && a.Latest.Verdict == VerdictNewer
}

// IgnoredComponent records a component suppressed by the ignore list.
type IgnoredComponent struct {
	PURL   string
	Reason string
}

// SBOMComponent is a single component row from a CycloneDX document,
// reduced to the fields the analysis needs.
type SBOMComponent struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	PURL    string `json:"purl"`
}

// SBOMDocument is the subset of a CycloneDX 1.5 JSON document consumed
// here.
type SBOMDocument struct {
	BOMFormat   string          `json:"bomFormat"`
	SpecVersion string          `json:"specVersion"`
	Components  []SBOMComponent `json:"components"`
}

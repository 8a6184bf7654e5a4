package core

import (
	"regexp"
	"strconv"
	"strings"

	semver "github.com/Masterminds/semver/v3"
	pep440 "github.com/aquasecurity/go-pep440-version"

	"sbom-age/internal/types"
)

// VersionComparator memoizes parsed version objects to avoid repeated
// parsing when the same version string shows up across components.
type VersionComparator struct {
	pep map[string]pep440.Version
	sem map[string]*semver.Version
}

// NewVersionComparator creates an empty comparator.
func NewVersionComparator() *VersionComparator {
	return &VersionComparator{
		pep: map[string]pep440.Version{},
		sem: map[string]*semver.Version{},
	}
}

// Compare decides whether latest is newer than current using an
// ecosystem-appropriate ordering: PEP 440 for pypi, semantic versioning
// elsewhere. When the strong parser rejects either string it falls back to
// a generic dotted-numeric comparison, and returns VerdictUnknown only if
// both strings are fully non-numeric.
func (c *VersionComparator) Compare(current string, latest string, ecosystem types.Ecosystem) types.Verdict {
	if ecosystem == types.EcosystemPyPI {
		if verdict, ok := c.comparePep440(current, latest); ok {
			return verdict
		}
		return compareGeneric(current, latest)
	}
	if verdict, ok := c.compareSemver(current, latest); ok {
		return verdict
	}
	return compareGeneric(current, latest)
}

func (c *VersionComparator) comparePep440(current string, latest string) (types.Verdict, bool) {
	cur, err := c.pepVersion(current)
	if err != nil {
		return types.VerdictUnknown, false
	}
	lat, err := c.pepVersion(latest)
	if err != nil {
		return types.VerdictUnknown, false
	}
	if lat.GreaterThan(cur) {
		return types.VerdictNewer, true
	}
	return types.VerdictNotNewer, true
}

func (c *VersionComparator) compareSemver(current string, latest string) (types.Verdict, bool) {
	cur, err := c.semVersion(current)
	if err != nil {
		return types.VerdictUnknown, false
	}
	lat, err := c.semVersion(latest)
	if err != nil {
		return types.VerdictUnknown, false
	}
	if lat.GreaterThan(cur) {
		return types.VerdictNewer, true
	}
	return types.VerdictNotNewer, true
}

func (c *VersionComparator) pepVersion(value string) (pep440.Version, error) {
	if parsed, ok := c.pep[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return pep440.Version{}, err
	}
	c.pep[value] = parsed
	return parsed, nil
}

func (c *VersionComparator) semVersion(value string) (*semver.Version, error) {
	if parsed, ok := c.sem[value]; ok {
		return parsed, nil
	}
	parsed, err := semver.NewVersion(strings.TrimPrefix(value, "v"))
	if err != nil {
		return nil, err
	}
	c.sem[value] = parsed
	return parsed, nil
}

var digitRun = regexp.MustCompile(`[0-9]+`)

// compareGeneric extracts the first digit run of every dot-separated
// segment and compares the resulting integer sequences. Unparseable
// segments count as 0; when all shared segments are equal the longer
// sequence wins.
func compareGeneric(current string, latest string) types.Verdict {
	curSegments, curNumeric := numericSegments(current)
	latSegments, latNumeric := numericSegments(latest)
	if !curNumeric && !latNumeric {
		return types.VerdictUnknown
	}
	shared := len(curSegments)
	if len(latSegments) < shared {
		shared = len(latSegments)
	}
	for i := 0; i < shared; i++ {
		if latSegments[i] > curSegments[i] {
			return types.VerdictNewer
		}
		if latSegments[i] < curSegments[i] {
			return types.VerdictNotNewer
		}
	}
	if len(latSegments) > len(curSegments) {
		return types.VerdictNewer
	}
	return types.VerdictNotNewer
}

func numericSegments(value string) ([]int, bool) {
	numeric := digitRun.MatchString(value)
	parts := strings.Split(strings.TrimSpace(value), ".")
	segments := make([]int, 0, len(parts))
	for _, part := range parts {
		run := digitRun.FindString(part)
		if run == "" {
			segments = append(segments, 0)
			continue
		}
		parsed, err := strconv.Atoi(run)
		if err != nil {
			parsed = 0
		}
		segments = append(segments, parsed)
	}
	return segments, numeric
}

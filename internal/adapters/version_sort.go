package adapters

import (
	"sort"
	"strings"

	semver "github.com/Masterminds/semver/v3"
)

// highestVersion picks the greatest entry by semantic-version ordering,
// falling back to lexical comparison for entries semver cannot parse.
// Returns "" for an empty list.
func highestVersion(versions []string) string {
	if len(versions) == 0 {
		return ""
	}
	sorted := append([]string(nil), versions...)
	sort.Slice(sorted, func(i, j int) bool {
		vi, errI := semver.NewVersion(strings.TrimPrefix(sorted[i], "v"))
		vj, errJ := semver.NewVersion(strings.TrimPrefix(sorted[j], "v"))
		if errI != nil || errJ != nil {
			return sorted[i] < sorted[j]
		}
		return vi.LessThan(vj)
	})
	return sorted[len(sorted)-1]
}

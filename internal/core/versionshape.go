package core

import "regexp"

// versionShaped matches plain digit-dot version strings with an optional
// pre-release or build suffix, e.g. "1.2.3", "33.5.0-jre", "2.0.0+b42".
// Strings with non-numeric tokens embedded between the dots, such as
// "momo5.1f.medialive.20210427105401", do not match.
var versionShaped = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*([-+][0-9A-Za-z.]+)?$`)

// IsVersionShaped reports whether a discovered version string looks like a
// real version. Broad maven fallback searches sometimes return unrelated
// artifacts sharing an artifact name; their version strings usually fail
// this check and get the stricter release-date validation instead.
func IsVersionShaped(value string) bool {
	return versionShaped.MatchString(value)
}

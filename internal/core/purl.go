package core

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"sbom-age/internal/types"
)

const purlScheme = "pkg:"

// ParsePURL splits a package URL into its ecosystem, namespace/name and
// version parts. Version qualifiers (query and fragment suffixes) are
// stripped. Maven accepts both pkg:maven/group/artifact@v and the compact
// pkg:maven/group:artifact@v form; for all other ecosystems the remaining
// path segments are joined and percent-decoded so scoped names such as
// %40scope%2Fname round-trip to @scope/name.
//
// Malformed input yields ok=false and a logged diagnostic; it never
// aborts the caller.
func ParsePURL(ctx context.Context, purl string) (types.PackageCoordinate, bool) {
	trimmed := strings.TrimSpace(purl)
	if !strings.HasPrefix(trimmed, purlScheme) {
		log.Ctx(ctx).Warn().Str("purl", purl).Msg("purl missing pkg: scheme")
		return types.PackageCoordinate{}, false
	}
	body := trimmed[len(purlScheme):]
	mainPart, versionPart, found := strings.Cut(body, "@")
	if !found {
		log.Ctx(ctx).Warn().Str("purl", purl).Msg("purl missing version separator")
		return types.PackageCoordinate{}, false
	}
	version := strings.SplitN(versionPart, "?", 2)[0]
	version = strings.SplitN(version, "#", 2)[0]
	if version == "" {
		log.Ctx(ctx).Warn().Str("purl", purl).Msg("purl has empty version")
		return types.PackageCoordinate{}, false
	}

	segments := strings.Split(mainPart, "/")
	ecosystem := normalizeEcosystem(segments[0])
	nameSegments := segments[1:]

	coordinate := types.PackageCoordinate{
		Ecosystem: ecosystem,
		Version:   version,
		PURL:      trimmed,
	}

	if ecosystem == types.EcosystemMaven {
		group, artifact, ok := splitMavenSegments(nameSegments)
		if !ok {
			log.Ctx(ctx).Warn().Str("purl", purl).Msg("maven purl missing group or artifact")
			return types.PackageCoordinate{}, false
		}
		coordinate.Group = group
		coordinate.Artifact = artifact
		return coordinate, true
	}

	name := decodeSegments(nameSegments)
	if name == "" {
		log.Ctx(ctx).Warn().Str("purl", purl).Msg("purl has empty name")
		return types.PackageCoordinate{}, false
	}
	coordinate.Name = name
	return coordinate, true
}

func normalizeEcosystem(value string) types.Ecosystem {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "pypi":
		return types.EcosystemPyPI
	case "npm":
		return types.EcosystemNpm
	case "maven":
		return types.EcosystemMaven
	case "cargo":
		return types.EcosystemCargo
	case "cocoapods":
		return types.EcosystemCocoaPods
	default:
		return types.EcosystemOther
	}
}

// splitMavenSegments accepts both the group/artifact path form and the
// compact group:artifact single-segment form.
func splitMavenSegments(segments []string) (string, string, bool) {
	if len(segments) == 1 {
		group, artifact, found := strings.Cut(segments[0], ":")
		if !found || group == "" || artifact == "" {
			return "", "", false
		}
		return group, artifact, true
	}
	if len(segments) >= 2 {
		group := segments[0]
		artifact := segments[1]
		if group == "" || artifact == "" {
			return "", "", false
		}
		return group, artifact, true
	}
	return "", "", false
}

func decodeSegments(segments []string) string {
	decoded := make([]string, 0, len(segments))
	for _, segment := range segments {
		value, err := url.PathUnescape(segment)
		if err != nil {
			value = segment
		}
		decoded = append(decoded, value)
	}
	return strings.Join(decoded, "/")
}

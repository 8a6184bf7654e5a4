package adapters

import (
	"context"
	"fmt"
	"net/url"

	"sbom-age/internal/ports"
	"sbom-age/internal/types"
)

const defaultNpmBaseURL = "https://registry.npmjs.org"

type NpmRegistryAdapter struct {
	BaseURL string
	Client  *HTTPClient
}

func NewNpmRegistryAdapter(client *HTTPClient) *NpmRegistryAdapter {
	return &NpmRegistryAdapter{BaseURL: defaultNpmBaseURL, Client: client}
}

func (a *NpmRegistryAdapter) Ecosystem() types.Ecosystem {
	return types.EcosystemNpm
}

type npmPackagePayload struct {
	Time     map[string]string   `json:"time"`
	DistTags map[string]string   `json:"dist-tags"`
	Versions map[string]struct{} `json:"versions"`
}

func (a *NpmRegistryAdapter) packageURL(name string) string {
	// Scoped names keep their slash percent-encoded in the request path.
	return fmt.Sprintf("%s/%s", a.BaseURL, url.PathEscape(name))
}

// ResolveReleaseDate reads the version's publish timestamp from the
// package document's time map.
func (a *NpmRegistryAdapter) ResolveReleaseDate(ctx context.Context, coordinate types.PackageCoordinate) (types.ResolutionResult, error) {
	var payload npmPackagePayload
	found, err := a.Client.GetJSON(ctx, a.packageURL(coordinate.Name), &payload)
	if err != nil || !found {
		return types.ResolutionResult{}, err
	}
	raw, ok := payload.Time[coordinate.Version]
	if !ok {
		return types.ResolutionResult{}, nil
	}
	published := parseTimeFlexible(raw)
	if published.IsZero() {
		return types.ResolutionResult{}, nil
	}
	return types.ResolutionResult{ReleaseDate: &published, Source: types.SourceRegistryAPI}, nil
}

// ResolveLatestVersion reads the latest dist-tag, falling back to the
// highest key of the versions map when the tag is absent.
func (a *NpmRegistryAdapter) ResolveLatestVersion(ctx context.Context, coordinate types.PackageCoordinate) (types.LatestVersionResult, error) {
	var payload npmPackagePayload
	found, err := a.Client.GetJSON(ctx, a.packageURL(coordinate.Name), &payload)
	if err != nil || !found {
		return types.LatestVersionResult{}, err
	}
	if latest := payload.DistTags["latest"]; latest != "" {
		return types.LatestVersionResult{Version: latest, Source: types.SourceRegistryAPI}, nil
	}
	versions := make([]string, 0, len(payload.Versions))
	for version := range payload.Versions {
		versions = append(versions, version)
	}
	highest := highestVersion(versions)
	if highest == "" {
		return types.LatestVersionResult{}, nil
	}
	return types.LatestVersionResult{Version: highest, Source: types.SourceRegistryAPI}, nil
}

var _ ports.RegistryPort = (*NpmRegistryAdapter)(nil)

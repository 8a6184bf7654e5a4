package adapters

import (
	"context"
	"fmt"
	"net/url"

	"sbom-age/internal/ports"
	"sbom-age/internal/types"
)

const defaultCratesBaseURL = "https://crates.io"

type CratesRegistryAdapter struct {
	BaseURL string
	Client  *HTTPClient
}

func NewCratesRegistryAdapter(client *HTTPClient) *CratesRegistryAdapter {
	return &CratesRegistryAdapter{BaseURL: defaultCratesBaseURL, Client: client}
}

func (a *CratesRegistryAdapter) Ecosystem() types.Ecosystem {
	return types.EcosystemCargo
}

type cratesVersionsPayload struct {
	Versions []struct {
		Num       string `json:"num"`
		CreatedAt string `json:"created_at"`
		Yanked    bool   `json:"yanked"`
	} `json:"versions"`
}

func (a *CratesRegistryAdapter) versionsURL(name string) string {
	return fmt.Sprintf("%s/api/v1/crates/%s/versions", a.BaseURL, url.PathEscape(name))
}

// ResolveReleaseDate reads the created_at timestamp of the matching
// version row.
func (a *CratesRegistryAdapter) ResolveReleaseDate(ctx context.Context, coordinate types.PackageCoordinate) (types.ResolutionResult, error) {
	var payload cratesVersionsPayload
	found, err := a.Client.GetJSON(ctx, a.versionsURL(coordinate.Name), &payload)
	if err != nil || !found {
		return types.ResolutionResult{}, err
	}
	for _, version := range payload.Versions {
		if version.Num != coordinate.Version {
			continue
		}
		created := parseTimeFlexible(version.CreatedAt)
		if created.IsZero() {
			return types.ResolutionResult{}, nil
		}
		return types.ResolutionResult{ReleaseDate: &created, Source: types.SourceRegistryAPI}, nil
	}
	return types.ResolutionResult{}, nil
}

// ResolveLatestVersion picks the highest non-yanked version.
func (a *CratesRegistryAdapter) ResolveLatestVersion(ctx context.Context, coordinate types.PackageCoordinate) (types.LatestVersionResult, error) {
	var payload cratesVersionsPayload
	found, err := a.Client.GetJSON(ctx, a.versionsURL(coordinate.Name), &payload)
	if err != nil || !found {
		return types.LatestVersionResult{}, err
	}
	var versions []string
	for _, version := range payload.Versions {
		if version.Yanked {
			continue
		}
		versions = append(versions, version.Num)
	}
	highest := highestVersion(versions)
	if highest == "" {
		return types.LatestVersionResult{}, nil
	}
	return types.LatestVersionResult{Version: highest, Source: types.SourceRegistryAPI}, nil
}

var _ ports.RegistryPort = (*CratesRegistryAdapter)(nil)

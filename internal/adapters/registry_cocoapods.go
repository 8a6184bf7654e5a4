package adapters

import (
	"context"
	"fmt"
	"net/url"

	"sbom-age/internal/ports"
	"sbom-age/internal/types"
)

const defaultCocoaPodsBaseURL = "https://trunk.cocoapods.org"

type CocoaPodsRegistryAdapter struct {
	BaseURL string
	Client  *HTTPClient
}

func NewCocoaPodsRegistryAdapter(client *HTTPClient) *CocoaPodsRegistryAdapter {
	return &CocoaPodsRegistryAdapter{BaseURL: defaultCocoaPodsBaseURL, Client: client}
}

func (a *CocoaPodsRegistryAdapter) Ecosystem() types.Ecosystem {
	return types.EcosystemCocoaPods
}

type cocoaPodsPayload struct {
	Versions []struct {
		Name      string `json:"name"`
		CreatedAt string `json:"created_at"`
		Created   string `json:"created"`
	} `json:"versions"`
}

func (a *CocoaPodsRegistryAdapter) podURL(name string) string {
	return fmt.Sprintf("%s/api/v1/pods/%s", a.BaseURL, url.PathEscape(name))
}

// ResolveReleaseDate reads the created timestamp of the matching version
// row; trunk has emitted both created_at and created over time.
func (a *CocoaPodsRegistryAdapter) ResolveReleaseDate(ctx context.Context, coordinate types.PackageCoordinate) (types.ResolutionResult, error) {
	var payload cocoaPodsPayload
	found, err := a.Client.GetJSON(ctx, a.podURL(coordinate.Name), &payload)
	if err != nil || !found {
		return types.ResolutionResult{}, err
	}
	for _, version := range payload.Versions {
		if version.Name != coordinate.Version {
			continue
		}
		raw := version.CreatedAt
		if raw == "" {
			raw = version.Created
		}
		created := parseTimeFlexible(raw)
		if created.IsZero() {
			return types.ResolutionResult{}, nil
		}
		return types.ResolutionResult{ReleaseDate: &created, Source: types.SourceRegistryAPI}, nil
	}
	return types.ResolutionResult{}, nil
}

// ResolveLatestVersion picks the highest version name in the pod's list.
func (a *CocoaPodsRegistryAdapter) ResolveLatestVersion(ctx context.Context, coordinate types.PackageCoordinate) (types.LatestVersionResult, error) {
	var payload cocoaPodsPayload
	found, err := a.Client.GetJSON(ctx, a.podURL(coordinate.Name), &payload)
	if err != nil || !found {
		return types.LatestVersionResult{}, err
	}
	var versions []string
	for _, version := range payload.Versions {
		versions = append(versions, version.Name)
	}
	highest := highestVersion(versions)
	if highest == "" {
		return types.LatestVersionResult{}, nil
	}
	return types.LatestVersionResult{Version: highest, Source: types.SourceRegistryAPI}, nil
}

var _ ports.RegistryPort = (*CocoaPodsRegistryAdapter)(nil)

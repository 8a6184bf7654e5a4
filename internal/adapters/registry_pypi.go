package adapters

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"sbom-age/internal/ports"
	"sbom-age/internal/types"
)

const defaultPyPIBaseURL = "https://pypi.org"

type PyPIRegistryAdapter struct {
	BaseURL string
	Client  *HTTPClient
}

func NewPyPIRegistryAdapter(client *HTTPClient) *PyPIRegistryAdapter {
	return &PyPIRegistryAdapter{BaseURL: defaultPyPIBaseURL, Client: client}
}

func (a *PyPIRegistryAdapter) Ecosystem() types.Ecosystem {
	return types.EcosystemPyPI
}

type pypiReleasePayload struct {
	URLs []struct {
		UploadTime string `json:"upload_time_iso_8601"`
	} `json:"urls"`
}

type pypiProjectPayload struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
}

// ResolveReleaseDate reads the earliest upload timestamp across the
// version's file entries.
func (a *PyPIRegistryAdapter) ResolveReleaseDate(ctx context.Context, coordinate types.PackageCoordinate) (types.ResolutionResult, error) {
	requestURL := fmt.Sprintf("%s/pypi/%s/%s/json", a.BaseURL, url.PathEscape(coordinate.Name), url.PathEscape(coordinate.Version))
	var payload pypiReleasePayload
	found, err := a.Client.GetJSON(ctx, requestURL, &payload)
	if err != nil || !found {
		return types.ResolutionResult{}, err
	}
	var earliest time.Time
	for _, entry := range payload.URLs {
		uploaded := parseTimeFlexible(entry.UploadTime)
		if uploaded.IsZero() {
			continue
		}
		if earliest.IsZero() || uploaded.Before(earliest) {
			earliest = uploaded
		}
	}
	if earliest.IsZero() {
		return types.ResolutionResult{}, nil
	}
	return types.ResolutionResult{ReleaseDate: &earliest, Source: types.SourceRegistryAPI}, nil
}

// ResolveLatestVersion reads the project's current version from its info
// block.
func (a *PyPIRegistryAdapter) ResolveLatestVersion(ctx context.Context, coordinate types.PackageCoordinate) (types.LatestVersionResult, error) {
	requestURL := fmt.Sprintf("%s/pypi/%s/json", a.BaseURL, url.PathEscape(coordinate.Name))
	var payload pypiProjectPayload
	found, err := a.Client.GetJSON(ctx, requestURL, &payload)
	if err != nil || !found {
		return types.LatestVersionResult{}, err
	}
	if payload.Info.Version == "" {
		return types.LatestVersionResult{}, nil
	}
	return types.LatestVersionResult{Version: payload.Info.Version, Source: types.SourceRegistryAPI}, nil
}

var _ ports.RegistryPort = (*PyPIRegistryAdapter)(nil)

package adapters

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"sbom-age/internal/ports"
	"sbom-age/internal/types"
)

const defaultMavenSearchURL = "https://search.maven.org/solrsearch/select"
const defaultMavenCentralURL = "https://repo1.maven.org/maven2"
const defaultGoogleMavenURL = "https://dl.google.com/dl/android/maven2"

const mavenSearchRows = 50

// googleHostedPrefixes lists group prefixes served primarily from
// Google's maven mirror rather than Central.
var googleHostedPrefixes = []string{
	"androidx",
	"android.arch",
	"com.android",
	"com.google.android",
	"com.google.firebase",
	"com.google.gms",
	"com.google.mlkit",
	"com.google.ar",
}

// MavenRegistryAdapter resolves maven coordinates through an ordered chain
// of tiers, each tagging its provenance. The chain order differs between
// release-date and latest-version lookups, and is reordered per coordinate
// for groups hosted on the Google mirror.
type MavenRegistryAdapter struct {
	SearchURL  string
	CentralURL string
	GoogleURL  string
	Client     *HTTPClient
}

func NewMavenRegistryAdapter(client *HTTPClient) *MavenRegistryAdapter {
	return &MavenRegistryAdapter{
		SearchURL:  defaultMavenSearchURL,
		CentralURL: defaultMavenCentralURL,
		GoogleURL:  defaultGoogleMavenURL,
		Client:     client,
	}
}

func (a *MavenRegistryAdapter) Ecosystem() types.Ecosystem {
	return types.EcosystemMaven
}

type mavenDateTier struct {
	source string
	fetch  func(ctx context.Context, coordinate types.PackageCoordinate) (time.Time, error)
}

type mavenLatestTier struct {
	source string
	fetch  func(ctx context.Context, coordinate types.PackageCoordinate) (string, error)
}

// ResolveReleaseDate walks the date tiers in order: the Central search API
// first, then Last-Modified headers of the pom on Central, then on the
// Google mirror. A tier's failure is swallowed and the next tier tried.
func (a *MavenRegistryAdapter) ResolveReleaseDate(ctx context.Context, coordinate types.PackageCoordinate) (types.ResolutionResult, error) {
	tiers := []mavenDateTier{
		{source: types.SourceSearchAPI, fetch: a.searchTimestamp},
		{source: types.SourceCentralPom, fetch: a.centralPomLastModified},
		{source: types.SourceGooglePom, fetch: a.googlePomLastModified},
	}
	for _, tier := range tiers {
		resolved, err := tier.fetch(ctx, coordinate)
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).
				Str("tier", tier.source).
				Str("coordinate", coordinate.DisplayName()).
				Msg("maven release date tier failed")
			continue
		}
		if resolved.IsZero() {
			continue
		}
		date := resolved
		return types.ResolutionResult{ReleaseDate: &date, Source: tier.source}, nil
	}
	return types.ResolutionResult{}, nil
}

// ResolveLatestVersion walks the latest tiers in order. Google-hosted
// groups try the Google mirror's metadata and directory listing first;
// everything else starts at Central metadata, then the search API, then
// the Google mirror. The final artifact-name-only search matches across
// all groups and is the noisiest tier, so it always runs last.
func (a *MavenRegistryAdapter) ResolveLatestVersion(ctx context.Context, coordinate types.PackageCoordinate) (types.LatestVersionResult, error) {
	googleTiers := []mavenLatestTier{
		{source: types.SourceGoogleMeta, fetch: a.googleMetadataLatest},
		{source: types.SourceGoogleListing, fetch: a.googleListingLatest},
	}
	centralTiers := []mavenLatestTier{
		{source: types.SourceCentralMeta, fetch: a.centralMetadataLatest},
		{source: types.SourceSearchAPI, fetch: a.searchLatest},
	}
	var tiers []mavenLatestTier
	if googleHostedGroup(coordinate.Group) {
		tiers = append(append(tiers, googleTiers...), centralTiers...)
	} else {
		tiers = append(append(tiers, centralTiers...), googleTiers...)
	}
	tiers = append(tiers, mavenLatestTier{source: types.SourceArtifactSearch, fetch: a.artifactSearchLatest})

	for _, tier := range tiers {
		version, err := tier.fetch(ctx, coordinate)
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).
				Str("tier", tier.source).
				Str("coordinate", coordinate.DisplayName()).
				Msg("maven latest version tier failed")
			continue
		}
		if version == "" {
			continue
		}
		return types.LatestVersionResult{Version: version, Source: tier.source}, nil
	}
	return types.LatestVersionResult{}, nil
}

type mavenSearchPayload struct {
	Response struct {
		NumFound int `json:"numFound"`
		Docs     []struct {
			Group         string `json:"g"`
			Artifact      string `json:"a"`
			Version       string `json:"v"`
			LatestVersion string `json:"latestVersion"`
			Timestamp     int64  `json:"timestamp"`
		} `json:"docs"`
	} `json:"response"`
}

func (a *MavenRegistryAdapter) searchTimestamp(ctx context.Context, coordinate types.PackageCoordinate) (time.Time, error) {
	query := fmt.Sprintf(`g:%q AND a:%q AND v:%q`, coordinate.Group, coordinate.Artifact, coordinate.Version)
	requestURL := fmt.Sprintf("%s?q=%s&rows=1&wt=json", a.SearchURL, url.QueryEscape(query))
	var payload mavenSearchPayload
	found, err := a.Client.GetJSON(ctx, requestURL, &payload)
	if err != nil || !found {
		return time.Time{}, err
	}
	if payload.Response.NumFound == 0 || len(payload.Response.Docs) == 0 {
		return time.Time{}, nil
	}
	millis := payload.Response.Docs[0].Timestamp
	if millis <= 0 {
		return time.Time{}, nil
	}
	return time.UnixMilli(millis).UTC(), nil
}

func (a *MavenRegistryAdapter) centralPomLastModified(ctx context.Context, coordinate types.PackageCoordinate) (time.Time, error) {
	return a.pomLastModified(ctx, a.CentralURL, coordinate)
}

func (a *MavenRegistryAdapter) googlePomLastModified(ctx context.Context, coordinate types.PackageCoordinate) (time.Time, error) {
	return a.pomLastModified(ctx, a.GoogleURL, coordinate)
}

// pomLastModified extracts the mirror's Last-Modified header for the
// artifact's pom, trying HEAD first and falling back to GET when the
// HEAD response lacks the header.
func (a *MavenRegistryAdapter) pomLastModified(ctx context.Context, baseURL string, coordinate types.PackageCoordinate) (time.Time, error) {
	pomURL := fmt.Sprintf("%s/%s/%s/%s/%s-%s.pom",
		strings.TrimRight(baseURL, "/"),
		groupPath(coordinate.Group),
		coordinate.Artifact,
		coordinate.Version,
		coordinate.Artifact,
		coordinate.Version,
	)
	modified, err := a.lastModifiedHeader(ctx, pomURL, true)
	if err != nil {
		return time.Time{}, err
	}
	if !modified.IsZero() {
		return modified, nil
	}
	return a.lastModifiedHeader(ctx, pomURL, false)
}

func (a *MavenRegistryAdapter) lastModifiedHeader(ctx context.Context, requestURL string, head bool) (time.Time, error) {
	var resp *http.Response
	var err error
	if head {
		resp, err = a.Client.Head(ctx, requestURL)
	} else {
		resp, err = a.Client.Get(ctx, requestURL)
	}
	if err != nil {
		return time.Time{}, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return time.Time{}, nil
	}
	return parseLastModified(resp.Header.Get("Last-Modified")), nil
}

type mavenMetadataDocument struct {
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

func (a *MavenRegistryAdapter) centralMetadataLatest(ctx context.Context, coordinate types.PackageCoordinate) (string, error) {
	return a.metadataLatest(ctx, a.CentralURL, coordinate)
}

func (a *MavenRegistryAdapter) googleMetadataLatest(ctx context.Context, coordinate types.PackageCoordinate) (string, error) {
	return a.metadataLatest(ctx, a.GoogleURL, coordinate)
}

// metadataLatest reads the mirror's maven-metadata.xml, preferring the
// release element, then latest, then the last listed version.
func (a *MavenRegistryAdapter) metadataLatest(ctx context.Context, baseURL string, coordinate types.PackageCoordinate) (string, error) {
	metadataURL := fmt.Sprintf("%s/%s/%s/maven-metadata.xml",
		strings.TrimRight(baseURL, "/"),
		groupPath(coordinate.Group),
		coordinate.Artifact,
	)
	resp, err := a.Client.Get(ctx, metadataURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("status=%d url=%s", resp.StatusCode, metadataURL)
	}
	var document mavenMetadataDocument
	if err := xml.NewDecoder(resp.Body).Decode(&document); err != nil {
		return "", err
	}
	if document.Versioning.Release != "" {
		return document.Versioning.Release, nil
	}
	if document.Versioning.Latest != "" {
		return document.Versioning.Latest, nil
	}
	if count := len(document.Versioning.Versions); count > 0 {
		return document.Versioning.Versions[count-1], nil
	}
	return "", nil
}

// searchLatest queries the Central search API for all rows of the
// group+artifact pair and picks the highest version.
func (a *MavenRegistryAdapter) searchLatest(ctx context.Context, coordinate types.PackageCoordinate) (string, error) {
	query := fmt.Sprintf(`g:%q AND a:%q`, coordinate.Group, coordinate.Artifact)
	requestURL := fmt.Sprintf("%s?q=%s&core=gav&rows=%d&wt=json", a.SearchURL, url.QueryEscape(query), mavenSearchRows)
	var payload mavenSearchPayload
	found, err := a.Client.GetJSON(ctx, requestURL, &payload)
	if err != nil || !found {
		return "", err
	}
	var versions []string
	for _, doc := range payload.Response.Docs {
		if doc.Group != coordinate.Group || doc.Artifact != coordinate.Artifact {
			continue
		}
		if doc.Version != "" {
			versions = append(versions, doc.Version)
		}
	}
	return highestVersion(versions), nil
}

// artifactSearchLatest matches on artifact name alone across all groups.
// Results may belong to unrelated projects sharing the artifact name,
// which is why downstream validation scrutinizes what this tier returns.
func (a *MavenRegistryAdapter) artifactSearchLatest(ctx context.Context, coordinate types.PackageCoordinate) (string, error) {
	query := fmt.Sprintf(`a:%q`, coordinate.Artifact)
	requestURL := fmt.Sprintf("%s?q=%s&rows=%d&wt=json", a.SearchURL, url.QueryEscape(query), mavenSearchRows)
	var payload mavenSearchPayload
	found, err := a.Client.GetJSON(ctx, requestURL, &payload)
	if err != nil || !found {
		return "", err
	}
	var versions []string
	for _, doc := range payload.Response.Docs {
		if doc.Artifact != coordinate.Artifact {
			continue
		}
		if doc.LatestVersion != "" {
			versions = append(versions, doc.LatestVersion)
		} else if doc.Version != "" {
			versions = append(versions, doc.Version)
		}
	}
	return highestVersion(versions), nil
}

// googleListingLatest scrapes the Google mirror's directory listing for
// the artifact. Degraded-confidence source; its provenance tag lets the
// caller apply extra scrutiny.
func (a *MavenRegistryAdapter) googleListingLatest(ctx context.Context, coordinate types.PackageCoordinate) (string, error) {
	listingURL := fmt.Sprintf("%s/%s/%s/",
		strings.TrimRight(a.GoogleURL, "/"),
		groupPath(coordinate.Group),
		coordinate.Artifact,
	)
	resp, err := a.Client.Get(ctx, listingURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", nil
	}
	document, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}
	var versions []string
	document.Find("a").Each(func(_ int, selection *goquery.Selection) {
		entry := strings.Trim(strings.TrimSpace(selection.Text()), "/")
		if entry == "" || entry == ".." {
			return
		}
		versions = append(versions, entry)
	})
	return highestVersion(versions), nil
}

func groupPath(group string) string {
	return strings.ReplaceAll(group, ".", "/")
}

func googleHostedGroup(group string) bool {
	for _, prefix := range googleHostedPrefixes {
		if group == prefix || strings.HasPrefix(group, prefix+".") {
			return true
		}
	}
	return false
}

var _ ports.RegistryPort = (*MavenRegistryAdapter)(nil)

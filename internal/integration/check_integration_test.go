package integration

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"sbom-age/internal/adapters"
	"sbom-age/internal/app"
	"sbom-age/internal/ports"
	"sbom-age/internal/types"
)

// TestCheckEndToEnd drives the whole pipeline against stub registry
// servers: SBOM load, PURL parsing, release-date resolution over HTTP,
// update discovery, reporting and cache persistence.
func TestCheckEndToEnd(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	oldRelease := now.AddDate(0, 0, -400)

	searchServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("core") == "gav" {
			fmt.Fprintf(w, `{"response": {"numFound": 1, "docs": [{"g": "com.example", "a": "lib-old", "v": "2.0.0"}]}}`)
			return
		}
		fmt.Fprintf(w, `{"response": {"numFound": 1, "docs": [{"g": "com.example", "a": "lib-old", "v": "1.0.0", "timestamp": %d}]}}`, oldRelease.UnixMilli())
	}))
	defer searchServer.Close()

	npmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/left-pad", r.URL.Path)
		fmt.Fprintf(w, `{"time": {"1.3.0": %q}, "dist-tags": {"latest": "1.3.0"}}`, now.AddDate(0, 0, -5).Format(time.RFC3339))
	}))
	defer npmServer.Close()

	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	client := adapters.NewHTTPClient(adapters.HTTPConfig{
		Timeout:      2 * time.Second,
		Retries:      2,
		RetryDelay:   time.Millisecond,
		PerHostRate:  rate.Inf,
		PerHostBurst: 1,
	})
	maven := &adapters.MavenRegistryAdapter{
		SearchURL:  searchServer.URL + "/select",
		CentralURL: notFound.URL,
		GoogleURL:  notFound.URL,
		Client:     client,
	}
	npm := &adapters.NpmRegistryAdapter{BaseURL: npmServer.URL, Client: client}

	sbomPath := filepath.Join(t.TempDir(), "sbom.json")
	require.NoError(t, os.WriteFile(sbomPath, []byte(`{
		"bomFormat": "CycloneDX",
		"specVersion": "1.5",
		"components": [
			{"name": "lib-old", "version": "1.0.0", "purl": "pkg:maven/com.example/lib-old@1.0.0"},
			{"name": "left-pad", "version": "1.3.0", "purl": "pkg:npm/left-pad@1.3.0"}
		]
	}`), 0644))
	cachePath := filepath.Join(t.TempDir(), "cache.json")

	var out bytes.Buffer
	service := app.NewService()
	service.Reporter = &adapters.ConsoleReportAdapter{Out: &out}
	service.Registries = map[types.Ecosystem]ports.RegistryPort{
		types.EcosystemMaven: maven,
		types.EcosystemNpm:   npm,
	}
	service.Clock = func() time.Time { return now }

	result, err := service.Check(t.Context(), app.CheckRequest{
		SBOMPath:     sbomPath,
		MaxAgeDays:   30,
		CheckUpdates: true,
		CacheFile:    cachePath,
		Workers:      2,
	})
	require.NoError(t, err)

	require.Equal(t, 2, result.Components)
	require.Equal(t, 2, result.Resolved)
	require.Equal(t, 1, result.Alarms)
	require.Equal(t, 1, result.Updates)
	require.Contains(t, out.String(), "ALARM: pkg:maven/com.example/lib-old@1.0.0")
	require.Contains(t, out.String(), "age: 400 days (limit: 30 days)")
	require.Contains(t, out.String(), "UPDATE_AVAILABLE: 2.0.0 (source: search-api)")
	require.NotContains(t, out.String(), "pkg:npm/left-pad")

	// both lookups and the validated update landed in the cache file
	cache := adapters.NewFileCacheAdapter(cachePath)
	require.Equal(t, 3, cache.Len())

	// a re-run with all registries offline answers fully from the cache
	searchServer.Close()
	npmServer.Close()
	var rerun bytes.Buffer
	service.Reporter = &adapters.ConsoleReportAdapter{Out: &rerun}
	result, err = service.Check(t.Context(), app.CheckRequest{
		SBOMPath:     sbomPath,
		MaxAgeDays:   30,
		CheckUpdates: true,
		CacheFile:    cachePath,
		Workers:      2,
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Alarms)
	require.Equal(t, 1, result.Updates)
	require.Contains(t, rerun.String(), "UPDATE_AVAILABLE: 2.0.0")
}

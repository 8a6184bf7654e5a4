package adapters

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sbom-age/internal/ports"
	"sbom-age/internal/types"
)

func TestFileCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	date := time.Date(2023, 5, 22, 15, 12, 41, 0, time.UTC)

	cache := NewFileCacheAdapter(path)
	cache.PutRelease("release:pypi:requests::2.31.0", date)
	cache.PutLatest("latest:pypi:requests", ports.LatestCacheEntry{
		Latest:  "2.32.3",
		Verdict: types.VerdictNewer,
		Source:  types.SourceRegistryAPI,
	})
	require.NoError(t, cache.Save())

	reloaded := NewFileCacheAdapter(path)
	require.Equal(t, 2, reloaded.Len())

	got, ok := reloaded.GetRelease("release:pypi:requests::2.31.0")
	require.True(t, ok)
	require.True(t, got.Equal(date))

	entry, ok := reloaded.GetLatest("latest:pypi:requests")
	require.True(t, ok)
	require.Equal(t, "2.32.3", entry.Latest)
	require.Equal(t, types.VerdictNewer, entry.Verdict)
	require.Equal(t, types.SourceRegistryAPI, entry.Source)
}

func TestFileCacheMissingFileStartsEmpty(t *testing.T) {
	cache := NewFileCacheAdapter(filepath.Join(t.TempDir(), "absent.json"))
	require.Zero(t, cache.Len())
	_, ok := cache.GetRelease("release:npm:left-pad::1.0.0")
	require.False(t, ok)
}

func TestFileCacheCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0644))

	cache := NewFileCacheAdapter(path)
	require.Zero(t, cache.Len())

	// the corrupt file is replaced on the next save
	cache.PutRelease("release:npm:left-pad::1.0.0", time.Now().UTC())
	require.NoError(t, cache.Save())
	require.Equal(t, 1, NewFileCacheAdapter(path).Len())
}

func TestFileCacheEmptyPathIsTransient(t *testing.T) {
	cache := NewFileCacheAdapter("")
	cache.PutRelease("release:npm:left-pad::1.0.0", time.Now().UTC())
	require.NoError(t, cache.Save())
	require.Equal(t, 1, cache.Len())
}

func TestFileCacheKindsDoNotCross(t *testing.T) {
	cache := NewFileCacheAdapter("")
	cache.PutRelease("release:npm:left-pad::1.0.0", time.Now().UTC())
	_, ok := cache.GetLatest("release:npm:left-pad::1.0.0")
	require.False(t, ok)
}

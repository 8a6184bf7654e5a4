package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"sbom-age/internal/ports"
	"sbom-age/internal/types"
)

// cacheFileEntry is one row of the persisted cache file. Release-date keys
// carry date; latest-version keys carry latest, newer and source. The
// format has no schema version field; incompatible changes are not
// migrated.
type cacheFileEntry struct {
	Date   string `json:"date,omitempty"`
	Latest string `json:"latest,omitempty"`
	Newer  string `json:"newer,omitempty"`
	Source string `json:"source,omitempty"`
}

// FileCacheAdapter is the two-tier cache: the in-memory map serves the
// running process and is seeded from the cache file at construction, then
// written back on Save. Entries never expire. A missing or corrupt file
// starts the run with an empty cache; a failed save degrades the next run
// to cold cache but never fails the current one.
type FileCacheAdapter struct {
	path string

	mu      sync.RWMutex
	entries map[string]cacheFileEntry
}

// NewFileCacheAdapter loads the persisted cache at path. An empty path
// disables persistence and yields a purely transient cache.
func NewFileCacheAdapter(path string) *FileCacheAdapter {
	adapter := &FileCacheAdapter{
		path:    path,
		entries: map[string]cacheFileEntry{},
	}
	if path == "" {
		return adapter
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return adapter
	}
	var loaded map[string]cacheFileEntry
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Warn().Str("path", path).Msg("cache file is corrupt, starting empty")
		return adapter
	}
	adapter.entries = loaded
	return adapter
}

func (a *FileCacheAdapter) GetRelease(key string) (time.Time, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	entry, ok := a.entries[key]
	if !ok || entry.Date == "" {
		return time.Time{}, false
	}
	date := parseTimeFlexible(entry.Date)
	if date.IsZero() {
		return time.Time{}, false
	}
	return date, true
}

func (a *FileCacheAdapter) PutRelease(key string, date time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries[key] = cacheFileEntry{Date: date.UTC().Format(time.RFC3339)}
}

func (a *FileCacheAdapter) GetLatest(key string) (ports.LatestCacheEntry, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	entry, ok := a.entries[key]
	if !ok || entry.Latest == "" {
		return ports.LatestCacheEntry{}, false
	}
	return ports.LatestCacheEntry{
		Latest:  entry.Latest,
		Verdict: types.Verdict(entry.Newer),
		Source:  entry.Source,
	}, true
}

func (a *FileCacheAdapter) PutLatest(key string, entry ports.LatestCacheEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries[key] = cacheFileEntry{
		Latest: entry.Latest,
		Newer:  string(entry.Verdict),
		Source: entry.Source,
	}
}

// Save writes the cache back to disk. Persistence is best-effort; callers
// log the returned error and carry on.
func (a *FileCacheAdapter) Save() error {
	if a.path == "" {
		return nil
	}
	a.mu.RLock()
	data, err := json.MarshalIndent(a.entries, "", "  ")
	a.mu.RUnlock()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to marshal cache").
			WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create cache directory").
			WithCause(err)
	}
	if err := os.WriteFile(a.path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write cache file").
			WithCause(err)
	}
	return nil
}

// Len reports the number of cached entries.
func (a *FileCacheAdapter) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

var _ ports.CachePort = (*FileCacheAdapter)(nil)

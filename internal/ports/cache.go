package ports

import (
	"time"

	"sbom-age/internal/types"
)

// LatestCacheEntry is the persisted value of a latest-version lookup. The
// comparison verdict is stored alongside the discovered version so repeat
// runs need not recompute it.
type LatestCacheEntry struct {
	Latest  string
	Verdict types.Verdict
	Source  string
}

// CachePort is the shared release-date / latest-version cache. Entries
// never expire; a hit is trusted indefinitely within and across runs.
// Implementations must be safe for concurrent use by resolver workers.
type CachePort interface {
	GetRelease(key string) (time.Time, bool)
	PutRelease(key string, date time.Time)
	GetLatest(key string) (LatestCacheEntry, bool)
	PutLatest(key string, entry LatestCacheEntry)
	Save() error
}

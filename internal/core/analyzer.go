package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"sbom-age/internal/ports"
	"sbom-age/internal/types"
)

const defaultAnalyzerWorkers = 4

// Analyzer runs the two-phase age analysis: phase 1 resolves a release
// date for every coordinate, phase 2 discovers and validates a latest
// version for the aged subset only. Both phases fan out over a bounded
// worker pool; a single coordinate's failure is converted to an empty
// result and never disturbs its siblings.
type Analyzer struct {
	Registries   map[types.Ecosystem]ports.RegistryPort
	Cache        ports.CachePort
	Comparator   *VersionComparator
	Workers      int
	MaxAgeDays   int
	CheckUpdates bool
	Clock        func() time.Time

	flight singleflight.Group
}

// Result aggregates one analyzer run. Alarms are sorted by PURL.
type Result struct {
	Alarms     []types.AlarmRecord
	Resolved   int
	Unresolved int
}

func NewAnalyzer(registries map[types.Ecosystem]ports.RegistryPort, cache ports.CachePort, maxAgeDays int, workers int) *Analyzer {
	if workers <= 0 {
		workers = defaultAnalyzerWorkers
	}
	return &Analyzer{
		Registries: registries,
		Cache:      cache,
		Comparator: NewVersionComparator(),
		Workers:    workers,
		MaxAgeDays: maxAgeDays,
		Clock:      time.Now,
	}
}

type datedCoordinate struct {
	coordinate  types.PackageCoordinate
	releaseDate time.Time
	ageDays     int
}

type phase1Result struct {
	coordinate types.PackageCoordinate
	resolution types.ResolutionResult
}

type phase2Result struct {
	coordinate   types.PackageCoordinate
	latest       types.LatestVersionResult
	needsVerdict bool
	fromCache    bool
}

// Run analyzes the given coordinates and returns alarm records for every
// component older than the configured threshold.
func (a *Analyzer) Run(ctx context.Context, coordinates []types.PackageCoordinate) Result {
	now := a.now()
	result := Result{}

	resolutions := a.resolveDatesParallel(ctx, coordinates)

	var aged []datedCoordinate
	for _, res := range resolutions {
		if res.resolution.Empty() {
			result.Unresolved++
			continue
		}
		result.Resolved++
		released := res.resolution.ReleaseDate.UTC()
		ageDays := wholeDaysSince(now, released)
		if ageDays > a.MaxAgeDays {
			aged = append(aged, datedCoordinate{
				coordinate:  res.coordinate,
				releaseDate: released,
				ageDays:     ageDays,
			})
		}
	}

	latest := map[string]*types.LatestVersionResult{}
	if a.CheckUpdates && len(aged) > 0 {
		latest = a.resolveLatestParallel(ctx, aged)
	}

	for _, item := range aged {
		result.Alarms = append(result.Alarms, types.AlarmRecord{
			Coordinate:  item.coordinate,
			ReleaseDate: item.releaseDate,
			AgeDays:     item.ageDays,
			Latest:      latest[item.coordinate.PURL],
		})
	}
	sort.Slice(result.Alarms, func(i, j int) bool {
		return result.Alarms[i].Coordinate.PURL < result.Alarms[j].Coordinate.PURL
	})

	log.Ctx(ctx).Debug().
		Int("resolved", result.Resolved).
		Int("unresolved", result.Unresolved).
		Int("alarms", len(result.Alarms)).
		Msg("analysis completed")
	return result
}

func (a *Analyzer) resolveDatesParallel(ctx context.Context, coordinates []types.PackageCoordinate) []phase1Result {
	workerCount := a.Workers
	if len(coordinates) < workerCount {
		workerCount = len(coordinates)
	}
	if workerCount == 0 {
		return nil
	}
	tasks := make(chan types.PackageCoordinate)
	results := make(chan phase1Result, len(coordinates))
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for coordinate := range tasks {
				results <- phase1Result{
					coordinate: coordinate,
					resolution: a.resolveReleaseDate(ctx, coordinate, coordinate.Version),
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	for _, coordinate := range coordinates {
		tasks <- coordinate
	}
	close(tasks)

	collected := make([]phase1Result, 0, len(coordinates))
	for res := range results {
		collected = append(collected, res)
	}
	return collected
}

func (a *Analyzer) resolveLatestParallel(ctx context.Context, aged []datedCoordinate) map[string]*types.LatestVersionResult {
	workerCount := a.Workers
	if len(aged) < workerCount {
		workerCount = len(aged)
	}
	tasks := make(chan datedCoordinate)
	results := make(chan phase2Result, len(aged))
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range tasks {
				results <- a.resolveLatest(ctx, item)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	for _, item := range aged {
		tasks <- item
	}
	close(tasks)

	merged := map[string]*types.LatestVersionResult{}
	for res := range results {
		if res.latest.Empty() || !res.latest.Validated {
			continue
		}
		latest := res.latest
		if res.needsVerdict {
			latest.Verdict = a.Comparator.Compare(res.coordinate.Version, latest.Version, res.coordinate.Ecosystem)
		}
		if !res.fromCache {
			a.Cache.PutLatest(res.coordinate.LatestKey(), ports.LatestCacheEntry{
				Latest:  latest.Version,
				Verdict: latest.Verdict,
				Source:  latest.Source,
			})
		}
		merged[res.coordinate.PURL] = &latest
	}
	return merged
}

// resolveLatest discovers a latest-version candidate for one aged
// coordinate. Version-shaped candidates are accepted immediately; anything
// else must prove itself by having a release date strictly later than the
// current version's, otherwise it is discarded as cross-group noise.
func (a *Analyzer) resolveLatest(ctx context.Context, item datedCoordinate) phase2Result {
	coordinate := item.coordinate
	key := coordinate.LatestKey()
	if entry, ok := a.Cache.GetLatest(key); ok {
		return phase2Result{
			coordinate: coordinate,
			latest: types.LatestVersionResult{
				Version:   entry.Latest,
				Source:    entry.Source,
				Validated: true,
				Verdict:   entry.Verdict,
			},
			fromCache: true,
		}
	}
	registry, ok := a.Registries[coordinate.Ecosystem]
	if !ok {
		return phase2Result{coordinate: coordinate}
	}
	candidate, err := registry.ResolveLatestVersion(ctx, coordinate)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("purl", coordinate.PURL).Msg("latest version lookup failed")
		return phase2Result{coordinate: coordinate}
	}
	if candidate.Empty() {
		return phase2Result{coordinate: coordinate}
	}
	if IsVersionShaped(candidate.Version) {
		candidate.Validated = true
		return phase2Result{coordinate: coordinate, latest: candidate, needsVerdict: true}
	}
	candidateDate := a.resolveReleaseDate(ctx, coordinate, candidate.Version)
	if candidateDate.Empty() || !candidateDate.ReleaseDate.After(item.releaseDate) {
		log.Ctx(ctx).Debug().
			Str("purl", coordinate.PURL).
			Str("candidate", candidate.Version).
			Msg("discarded unverifiable latest version candidate")
		return phase2Result{coordinate: coordinate}
	}
	candidate.Validated = true
	candidate.Verdict = types.VerdictNewer
	return phase2Result{coordinate: coordinate, latest: candidate}
}

// resolveReleaseDate answers from the cache when possible and otherwise
// asks the ecosystem's registry, deduplicating concurrent requests for the
// same key so a run issues at most one live fetch per coordinate.
func (a *Analyzer) resolveReleaseDate(ctx context.Context, coordinate types.PackageCoordinate, version string) types.ResolutionResult {
	lookup := coordinate
	lookup.Version = version
	if !lookup.Resolvable() {
		log.Ctx(ctx).Debug().Str("purl", coordinate.PURL).Msg("coordinate version missing or unspecified")
		return types.ResolutionResult{}
	}
	key := types.ReleaseKeyFor(coordinate, version)
	if date, ok := a.Cache.GetRelease(key); ok {
		return types.ResolutionResult{ReleaseDate: &date, Source: types.SourceCache}
	}
	registry, ok := a.Registries[coordinate.Ecosystem]
	if !ok {
		return types.ResolutionResult{}
	}
	value, _, _ := a.flight.Do(key, func() (interface{}, error) {
		resolution, err := registry.ResolveReleaseDate(ctx, lookup)
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).Str("purl", coordinate.PURL).Str("version", version).Msg("release date lookup failed")
			return types.ResolutionResult{}, nil
		}
		return resolution, nil
	})
	resolution := value.(types.ResolutionResult)
	if !resolution.Empty() {
		a.Cache.PutRelease(key, resolution.ReleaseDate.UTC())
	}
	return resolution
}

func (a *Analyzer) now() time.Time {
	if a.Clock != nil {
		return a.Clock().UTC()
	}
	return time.Now().UTC()
}

// wholeDaysSince truncates toward zero; the alarm threshold is strict, so
// a component exactly at the limit does not alarm.
func wholeDaysSince(now time.Time, released time.Time) int {
	return int(now.Sub(released) / (24 * time.Hour))
}

package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"sbom-age/internal/adapters"
	"sbom-age/internal/core"
	"sbom-age/internal/types"
)

// Check runs the full age analysis: load the SBOM, filter components
// through the ignore list and optional manifest overlay, resolve release
// dates and updates, report, and persist the cache.
func (s Service) Check(ctx context.Context, req CheckRequest) (CheckResult, error) {
	sbomPath := strings.TrimSpace(req.SBOMPath)
	if sbomPath == "" {
		return CheckResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("sbom file path is required")
	}
	if req.MaxAgeDays <= 0 {
		return CheckResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("max age must be a positive number of days")
	}

	document, err := s.SBOM.LoadSBOM(sbomPath)
	if err != nil {
		return CheckResult{}, err
	}
	if err := s.Ignore.LoadIgnoreFile(strings.TrimSpace(req.IgnoreFile)); err != nil {
		return CheckResult{}, err
	}
	var manifestNames map[string]struct{}
	if path := strings.TrimSpace(req.ManifestPath); path != "" {
		manifestNames, err = s.Manifest.LoadNames(path)
		if err != nil {
			return CheckResult{}, err
		}
	}

	result := CheckResult{}
	var coordinates []types.PackageCoordinate
	var ignored []types.IgnoredComponent
	for _, component := range document.Components {
		if component.PURL == "" {
			continue
		}
		result.Components++
		coordinate, ok := core.ParsePURL(ctx, component.PURL)
		if !ok {
			result.Skipped++
			continue
		}
		if reason, matched := s.Ignore.Match(component.PURL); matched {
			ignored = append(ignored, types.IgnoredComponent{PURL: component.PURL, Reason: reason})
			result.Ignored++
			continue
		}
		if manifestNames != nil && !manifestContains(manifestNames, coordinate) {
			result.Filtered++
			continue
		}
		coordinates = append(coordinates, coordinate)
	}

	cache := adapters.NewFileCacheAdapter(strings.TrimSpace(req.CacheFile))
	registries := s.Registries
	if registries == nil {
		client := adapters.NewHTTPClient(adapters.NormalizeHTTPConfig(req.HTTPTimeoutSec, req.HTTPRetries, req.HTTPRetryDelayMs))
		registries = defaultRegistries(client)
	}

	analyzer := core.NewAnalyzer(registries, cache, req.MaxAgeDays, req.Workers)
	analyzer.CheckUpdates = req.CheckUpdates
	if s.Clock != nil {
		analyzer.Clock = s.Clock
	}
	analysis := analyzer.Run(ctx, coordinates)

	result.Resolved = analysis.Resolved
	result.Unresolved = analysis.Unresolved
	result.Alarms = len(analysis.Alarms)
	for _, record := range analysis.Alarms {
		s.Reporter.Alarm(record, req.MaxAgeDays)
		if record.UpdateAvailable() {
			result.Updates++
		}
	}
	if req.ShowIgnored {
		for _, component := range ignored {
			s.Reporter.Ignored(component)
		}
	}
	s.Reporter.Summary(result.Alarms, req.MaxAgeDays)

	if err := cache.Save(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to persist cache")
	}
	return result, nil
}

// manifestContains checks the coordinate against the manifest's declared
// names; maven components match on their artifact.
func manifestContains(names map[string]struct{}, coordinate types.PackageCoordinate) bool {
	candidate := coordinate.Name
	if coordinate.Ecosystem == types.EcosystemMaven {
		candidate = coordinate.Artifact
	}
	if _, ok := names[candidate]; ok {
		return true
	}
	_, ok := names[strings.ToLower(candidate)]
	return ok
}

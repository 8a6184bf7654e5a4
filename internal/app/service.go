package app

import (
	"time"

	"sbom-age/internal/adapters"
	"sbom-age/internal/ports"
	"sbom-age/internal/types"
)

type Service struct {
	SBOM     ports.SBOMPort
	Ignore   ports.IgnorePort
	Manifest ports.ManifestPort
	Reporter ports.ReportPort
	// Registries overrides the default registry set when non-nil; tests
	// use it to stub the network out.
	Registries map[types.Ecosystem]ports.RegistryPort
	Clock      func() time.Time
}

func NewService() Service {
	return Service{
		SBOM:     adapters.NewSBOMFileAdapter(),
		Ignore:   adapters.NewIgnoreFileAdapter(),
		Manifest: adapters.NewManifestFileAdapter(),
		Reporter: adapters.NewConsoleReportAdapter(),
		Clock:    time.Now,
	}
}

func defaultRegistries(client *adapters.HTTPClient) map[types.Ecosystem]ports.RegistryPort {
	return map[types.Ecosystem]ports.RegistryPort{
		types.EcosystemPyPI:      adapters.NewPyPIRegistryAdapter(client),
		types.EcosystemNpm:       adapters.NewNpmRegistryAdapter(client),
		types.EcosystemMaven:     adapters.NewMavenRegistryAdapter(client),
		types.EcosystemCargo:     adapters.NewCratesRegistryAdapter(client),
		types.EcosystemCocoaPods: adapters.NewCocoaPodsRegistryAdapter(client),
	}
}

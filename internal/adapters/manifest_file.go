package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"sbom-age/internal/ports"
)

// ManifestFileAdapter extracts declared dependency names from a project
// manifest so the analysis can be narrowed to components the project
// actually lists. Supported formats: package.json and requirements.txt.
type ManifestFileAdapter struct{}

func NewManifestFileAdapter() ManifestFileAdapter {
	return ManifestFileAdapter{}
}

var requirementSplit = regexp.MustCompile(`[=<>!~\[; ]`)

func (a ManifestFileAdapter) LoadNames(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read manifest file").
			WithCause(err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return parsePackageJSONNames(data)
	}
	return parseRequirementsNames(data), nil
}

func parsePackageJSONNames(data []byte) (map[string]struct{}, error) {
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse package.json").
			WithCause(err)
	}
	names := map[string]struct{}{}
	for name := range manifest.Dependencies {
		names[name] = struct{}{}
	}
	for name := range manifest.DevDependencies {
		names[name] = struct{}{}
	}
	return names, nil
}

func parseRequirementsNames(data []byte) map[string]struct{} {
	names := map[string]struct{}{}
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "-") {
			continue
		}
		name := requirementSplit.Split(trimmed, 2)[0]
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		names[strings.ToLower(name)] = struct{}{}
	}
	return names
}

var _ ports.ManifestPort = ManifestFileAdapter{}

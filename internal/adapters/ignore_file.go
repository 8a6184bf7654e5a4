package adapters

import (
	"os"
	"regexp"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"sbom-age/internal/ports"
)

// ignoreEntry is one row of the ignore file: either a literal PURL string
// or a mapping with purl_regex and reason. Order matters; the first match
// wins.
type ignoreEntry struct {
	PURL    string
	Pattern *regexp.Regexp
	Reason  string
}

func (e *ignoreEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.PURL = node.Value
		return nil
	}
	var raw struct {
		PURLRegex string `yaml:"purl_regex"`
		Reason    string `yaml:"reason"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.PURLRegex != "" {
		pattern, err := regexp.Compile(raw.PURLRegex)
		if err != nil {
			return err
		}
		e.Pattern = pattern
	}
	e.Reason = raw.Reason
	return nil
}

type IgnoreFileAdapter struct {
	entries []ignoreEntry
}

func NewIgnoreFileAdapter() *IgnoreFileAdapter {
	return &IgnoreFileAdapter{}
}

// LoadIgnoreFile parses the YAML ignore list. An empty path leaves the
// adapter matching nothing.
func (a *IgnoreFileAdapter) LoadIgnoreFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read ignore file").
			WithCause(err)
	}
	var entries []ignoreEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse ignore file yaml").
			WithCause(err)
	}
	a.entries = entries
	return nil
}

// Match returns the reason of the first entry matching the PURL, either by
// literal equality or by regex.
func (a *IgnoreFileAdapter) Match(purl string) (string, bool) {
	for _, entry := range a.entries {
		if entry.PURL != "" && entry.PURL == purl {
			return entry.Reason, true
		}
		if entry.Pattern != nil && entry.Pattern.MatchString(purl) {
			return entry.Reason, true
		}
	}
	return "", false
}

var _ ports.IgnorePort = (*IgnoreFileAdapter)(nil)

package adapters

import (
	"net/http"
	"strings"
	"time"
)

// parseTimeFlexible parses the timestamp shapes the registries actually
// emit: RFC 3339 with or without fractional seconds, and a couple of
// space-separated variants seen in older crates.io payloads.
func parseTimeFlexible(value string) time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.000000",
		"2006-01-02 15:04:05 -0700 MST",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

// parseLastModified parses an HTTP Last-Modified header (RFC 1123 and its
// RFC 850 / ANSI C fallbacks, per http.ParseTime).
func parseLastModified(value string) time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}
	}
	if parsed, err := http.ParseTime(trimmed); err == nil {
		return parsed.UTC()
	}
	return time.Time{}
}

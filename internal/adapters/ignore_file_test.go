package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeIgnoreFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ignore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestIgnoreFileLiteralAndRegex(t *testing.T) {
	adapter := NewIgnoreFileAdapter()
	require.NoError(t, adapter.LoadIgnoreFile(writeIgnoreFile(t, `
- pkg:npm/left-pad@1.3.0
- purl_regex: "^pkg:maven/com\\.internal\\..*"
  reason: in-house artifacts are patched separately
`)))

	reason, ok := adapter.Match("pkg:npm/left-pad@1.3.0")
	require.True(t, ok)
	require.Empty(t, reason)

	reason, ok = adapter.Match("pkg:maven/com.internal.tools/helper@0.1.0")
	require.True(t, ok)
	require.Equal(t, "in-house artifacts are patched separately", reason)

	_, ok = adapter.Match("pkg:npm/right-pad@1.0.0")
	require.False(t, ok)
}

func TestIgnoreFileFirstMatchWins(t *testing.T) {
	adapter := NewIgnoreFileAdapter()
	require.NoError(t, adapter.LoadIgnoreFile(writeIgnoreFile(t, `
- purl_regex: "^pkg:npm/"
  reason: first
- purl_regex: "left-pad"
  reason: second
`)))

	reason, ok := adapter.Match("pkg:npm/left-pad@1.3.0")
	require.True(t, ok)
	require.Equal(t, "first", reason)
}

func TestIgnoreFileEmptyPathMatchesNothing(t *testing.T) {
	adapter := NewIgnoreFileAdapter()
	require.NoError(t, adapter.LoadIgnoreFile(""))
	_, ok := adapter.Match("pkg:npm/left-pad@1.3.0")
	require.False(t, ok)
}

func TestIgnoreFileErrors(t *testing.T) {
	adapter := NewIgnoreFileAdapter()
	require.Error(t, adapter.LoadIgnoreFile(filepath.Join(t.TempDir(), "absent.yaml")))
	require.Error(t, adapter.LoadIgnoreFile(writeIgnoreFile(t, "not: [valid")))
	require.Error(t, adapter.LoadIgnoreFile(writeIgnoreFile(t, `
- purl_regex: "["
`)))
}

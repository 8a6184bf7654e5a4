package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadSBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sbom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"bomFormat": "CycloneDX",
		"specVersion": "1.5",
		"components": [
			{"name": "left-pad", "version": "1.3.0", "purl": "pkg:npm/left-pad@1.3.0"},
			{"name": "no-purl", "version": "0.1.0"}
		]
	}`), 0644))

	document, err := NewSBOMFileAdapter().LoadSBOM(path)
	require.NoError(t, err)
	require.Equal(t, "CycloneDX", document.BOMFormat)
	require.Len(t, document.Components, 2)
	require.Equal(t, "pkg:npm/left-pad@1.3.0", document.Components[0].PURL)
	require.Empty(t, document.Components[1].PURL)
}

func TestLoadSBOMMissingFile(t *testing.T) {
	_, err := NewSBOMFileAdapter().LoadSBOM(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoadSBOMInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sbom.json")
	require.NoError(t, os.WriteFile(path, []byte("<xml/>"), 0644))
	_, err := NewSBOMFileAdapter().LoadSBOM(path)
	require.Error(t, err)
}

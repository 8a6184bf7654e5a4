package adapters

import (
	"context"
	"encoding/json"
	"os"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"sbom-age/internal/ports"
	"sbom-age/internal/types"
)

type SBOMFileAdapter struct{}

func NewSBOMFileAdapter() SBOMFileAdapter {
	return SBOMFileAdapter{}
}

// LoadSBOM reads a CycloneDX JSON document. This is the one fatal error
// path in the system: a missing or unparsable SBOM aborts the run.
func (a SBOMFileAdapter) LoadSBOM(path string) (types.SBOMDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.SBOMDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to read sbom file").
			WithCause(err)
	}
	var document types.SBOMDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return types.SBOMDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse sbom json").
			WithCause(err)
	}
	ctx := context.Background()
	assert.NotEmpty(ctx, document.BOMFormat, "bomFormat must be set")
	if len(document.Components) == 0 {
		log.Warn().Str("path", path).Msg("sbom contains no components")
	}
	return document, nil
}

var _ ports.SBOMPort = SBOMFileAdapter{}

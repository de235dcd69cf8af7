package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
	"github.com/ekaya-inc/ekaya-tabular/pkg/parser"
)

func mustParse(t *testing.T, name, content string) *models.ParsedFile {
	t.Helper()
	pf, err := parser.ParseFile(name, content)
	require.NoError(t, err)
	return pf
}

func metaFor(t *testing.T, name, content string) *models.Metadata {
	t.Helper()
	return ExtractMetadata(mustParse(t, name, content), DefaultMetadataOptions())
}

func texts(values ...string) []models.CellValue {
	out := make([]models.CellValue, len(values))
	for i, v := range values {
		out[i] = models.TextCell(v)
	}
	return out
}

func analyze(t *testing.T, metas []*models.Metadata, opts AnalysisOptions) *models.Structure {
	t.Helper()
	s, err := AnalyzeStructure(context.Background(), metas, opts)
	require.NoError(t, err)
	return s
}

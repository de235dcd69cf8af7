package services

import (
	"slices"

	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
)

// MetadataOptions controls metadata extraction.
type MetadataOptions struct {
	SampleSize int     // Number of leading rows kept as the sample
	DateRatio  float64 // See DefaultDateRatio
}

// DefaultMetadataOptions returns sensible defaults.
func DefaultMetadataOptions() MetadataOptions {
	return MetadataOptions{
		SampleSize: 5,
		DateRatio:  DefaultDateRatio,
	}
}

// ExtractMetadata packages a parsed file into its descriptor: typed columns,
// the first SampleSize rows, and the row count. The result shares no slices
// with the file.
func ExtractMetadata(file *models.ParsedFile, opts MetadataOptions) *models.Metadata {
	types := InferFileTypes(file, opts.DateRatio)

	columns := make([]models.Column, len(file.Columns))
	for i, c := range file.Columns {
		columns[i] = models.Column{Name: c.Name, Type: types[i], Position: c.Position}
	}

	n := min(max(opts.SampleSize, 0), len(file.Rows))
	sample := make([]models.Row, n)
	for i := 0; i < n; i++ {
		sample[i] = copyRow(file.Rows[i])
	}

	return &models.Metadata{
		FileName:    file.FileName,
		Columns:     columns,
		ColumnTypes: types,
		Sample:      sample,
		RowCount:    len(file.Rows),
		HasHeader:   file.HasHeader,
		Delimiter:   file.Delimiter,
	}
}

// ExtractAll extracts metadata for every file, in input order.
func ExtractAll(files []*models.ParsedFile, opts MetadataOptions) []*models.Metadata {
	metas := make([]*models.Metadata, len(files))
	for i, f := range files {
		metas[i] = ExtractMetadata(f, opts)
	}
	return metas
}

// UniqueColumnNames returns the union of column names across files. The
// first occurrence of a name fixes its position in the result.
func UniqueColumnNames(metas []*models.Metadata) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range metas {
		for _, c := range m.Columns {
			if !seen[c.Name] {
				seen[c.Name] = true
				names = append(names, c.Name)
			}
		}
	}
	return names
}

// AreHomogeneous reports whether every file has the same column names,
// compared case-sensitively after sorting. Repeated names count, so
// [a a b] and [a b b] differ. Fewer than two files are trivially homogeneous.
func AreHomogeneous(metas []*models.Metadata) bool {
	if len(metas) < 2 {
		return true
	}
	first := sortedNames(metas[0])
	for _, m := range metas[1:] {
		if !slices.Equal(first, sortedNames(m)) {
			return false
		}
	}
	return true
}

func sortedNames(m *models.Metadata) []string {
	names := m.ColumnNames()
	slices.Sort(names)
	return names
}

func copyRow(r models.Row) models.Row {
	out := models.Row{
		Values:       slices.Clone(r.Values),
		RawFields:    slices.Clone(r.RawFields),
		Inconsistent: r.Inconsistent,
	}
	if r.Origin != nil {
		origin := *r.Origin
		out.Origin = &origin
	}
	return out
}

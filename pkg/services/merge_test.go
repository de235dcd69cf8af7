package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
)

func TestMergeFiles_Homogeneous(t *testing.T) {
	jan := mustParse(t, "jan.csv", "id,amount\n1,10\n2,20\n")
	feb := mustParse(t, "feb.csv", "id,amount\n3,30\n")

	merged := MergeFiles([]*models.ParsedFile{jan, feb}, models.MergeStrategyHomogeneous, DefaultDateRatio)

	assert.Equal(t, models.MergeStrategyHomogeneous, merged.Strategy)
	assert.Equal(t, []string{"jan.csv", "feb.csv"}, merged.SourceFiles)
	require.Len(t, merged.Columns, 2)
	assert.Equal(t, models.ColumnTypeNumber, merged.Columns[0].Type)
	require.Len(t, merged.Rows, 3)

	assert.True(t, merged.Rows[2].Values[0].Equal(models.NumberCell(3)))
	assert.Equal(t, []string{"3", "30"}, merged.Rows[2].RawFields)
	assert.Equal(t, &models.RowOrigin{FileName: "feb.csv", RowIndex: 0}, merged.Rows[2].Origin)
}

func TestMergeFiles_HomogeneousReordered(t *testing.T) {
	a := mustParse(t, "a.csv", "id,name\n1,x\n")
	b := mustParse(t, "b.csv", "name,id\ny,2\n")

	merged := MergeFiles([]*models.ParsedFile{a, b}, models.MergeStrategyHomogeneous, DefaultDateRatio)

	require.Len(t, merged.Rows, 2)
	row := merged.Rows[1]
	assert.True(t, row.Values[0].Equal(models.NumberCell(2)))
	assert.True(t, row.Values[1].Equal(models.TextCell("y")))
	assert.Equal(t, []string{"2", "y"}, row.RawFields)
}

func TestMergeFiles_Heterogeneous(t *testing.T) {
	orders := mustParse(t, "orders.csv", "order_id,total\n1,9.5\n2,20\n")
	customers := mustParse(t, "customers.csv", "customer_id,order_id\n10,1\n11,2\n12,3\n")

	merged := MergeFiles([]*models.ParsedFile{orders, customers}, models.MergeStrategyHeterogeneous, DefaultDateRatio)

	names := make([]string, len(merged.Columns))
	for i, c := range merged.Columns {
		names[i] = c.Name
		assert.Equal(t, i, c.Position)
	}
	assert.Equal(t, []string{"order_id", "total", "customer_id"}, names)

	// Every source row appears exactly once, in file order.
	require.Len(t, merged.Rows, 5)
	for i, row := range merged.Rows {
		assert.Len(t, row.Values, 3, "row %d must cover every union column", i)
		assert.Len(t, row.RawFields, 3)
	}
	assert.Equal(t, "orders.csv", merged.Rows[0].Origin.FileName)
	assert.Equal(t, "customers.csv", merged.Rows[4].Origin.FileName)
	assert.Equal(t, 2, merged.Rows[4].Origin.RowIndex)

	first := merged.Rows[0]
	assert.True(t, first.Values[2].IsAbsent())
	assert.Equal(t, "", first.RawFields[2])

	last := merged.Rows[4]
	assert.True(t, last.Values[0].Equal(models.NumberCell(3)))
	assert.True(t, last.Values[1].IsAbsent())
	assert.True(t, last.Values[2].Equal(models.NumberCell(12)))
}

func TestMergeFiles_HeterogeneousCompleteness(t *testing.T) {
	files := []*models.ParsedFile{
		mustParse(t, "a.csv", "a,b\n1,2\n3,4\n"),
		mustParse(t, "b.csv", "b,c,d\n5,6,7\n"),
		mustParse(t, "c.csv", "d,a\n8,9\n10,11\n12,13\n"),
	}

	merged := MergeFiles(files, models.MergeStrategyHeterogeneous, DefaultDateRatio)

	total := 0
	for _, f := range files {
		total += len(f.Rows)
	}
	require.Len(t, merged.Rows, total)

	seen := make(map[models.RowOrigin]int)
	for _, row := range merged.Rows {
		seen[*row.Origin]++
		assert.Len(t, row.Values, len(merged.Columns))
	}
	for _, f := range files {
		for i := range f.Rows {
			assert.Equal(t, 1, seen[models.RowOrigin{FileName: f.FileName, RowIndex: i}])
		}
	}
}

func TestMergeFiles_TypeDisagreement(t *testing.T) {
	a := mustParse(t, "a.csv", "code,flag\n1,true\n")
	b := mustParse(t, "b.csv", "code,flag\nX1,\n")

	merged := MergeFiles([]*models.ParsedFile{a, b}, models.MergeStrategyHeterogeneous, DefaultDateRatio)

	assert.Equal(t, models.ColumnTypeText, merged.Columns[0].Type, "number and text disagree")
	assert.Equal(t, models.ColumnTypeBoolean, merged.Columns[1].Type, "all-absent column does not vote")
}

func TestMergeFiles_DuplicateNameFirstOccurrenceWins(t *testing.T) {
	a := mustParse(t, "a.csv", "id,id\n1,2\n")
	b := mustParse(t, "b.csv", "id,x\n3,4\n")

	merged := MergeFiles([]*models.ParsedFile{a, b}, models.MergeStrategyHeterogeneous, DefaultDateRatio)

	require.Len(t, merged.Columns, 2)
	assert.True(t, merged.Rows[0].Values[0].Equal(models.NumberCell(1)))
	assert.True(t, merged.Rows[0].Values[1].IsAbsent())
}

func TestMergeFiles_DoesNotModifySources(t *testing.T) {
	a := mustParse(t, "a.csv", "id\n1\n")
	b := mustParse(t, "b.csv", "x\n2\n")

	merged := MergeFiles([]*models.ParsedFile{a, b}, models.MergeStrategyHeterogeneous, DefaultDateRatio)
	merged.Rows[0].Values[0] = models.TextCell("changed")

	assert.True(t, a.Rows[0].Values[0].Equal(models.NumberCell(1)))
	assert.Nil(t, a.Rows[0].Origin)
	assert.Equal(t, models.ColumnTypeUnknown, a.Columns[0].Type)
}

func TestMergeFiles_DateRatio(t *testing.T) {
	a := mustParse(t, "a.csv", "day\n2024-01-01\n2024-01-02\n2024-01-03\nsoon\n")
	b := mustParse(t, "b.csv", "day\n2024-02-01\n")
	files := []*models.ParsedFile{a, b}

	assert.Equal(t, models.ColumnTypeDate, MergeFiles(files, models.MergeStrategyHomogeneous, 0.7).Columns[0].Type)
	assert.Equal(t, models.ColumnTypeText, MergeFiles(files, models.MergeStrategyHomogeneous, DefaultDateRatio).Columns[0].Type)
}

func TestMergeFiles_RemappedRowKeepsInconsistent(t *testing.T) {
	a := mustParse(t, "a.csv", "id,x\n1,2,3\n")
	b := mustParse(t, "b.csv", "y\n5\n")
	require.True(t, a.Rows[0].Inconsistent)

	merged := MergeFiles([]*models.ParsedFile{a, b}, models.MergeStrategyHeterogeneous, DefaultDateRatio)

	row := merged.Rows[0]
	assert.True(t, row.Inconsistent, "flag describes the source row")
	assert.Equal(t, []string{"1", "2", ""}, row.RawFields)
	assert.False(t, merged.Rows[1].Inconsistent)
}

func TestMergeFiles_Panics(t *testing.T) {
	a := mustParse(t, "a.csv", "id\n1\n")

	assert.Panics(t, func() { MergeFiles(nil, models.MergeStrategyHomogeneous, DefaultDateRatio) })
	assert.Panics(t, func() { MergeFiles([]*models.ParsedFile{a}, models.MergeStrategy("zip"), DefaultDateRatio) })
}

func TestMergeSuggested(t *testing.T) {
	orders := mustParse(t, "orders.csv", "order_id,total\n1,9.5\n")
	customers := mustParse(t, "customers.csv", "customer_id,order_id\n10,1\n")
	files := []*models.ParsedFile{orders, customers}

	structure := analyze(t, ExtractAll(files, DefaultMetadataOptions()), DefaultAnalysisOptions())
	merged := MergeSuggested(files, structure, DefaultDateRatio)

	assert.Equal(t, models.MergeStrategyHeterogeneous, merged.Strategy)
	assert.Len(t, merged.Rows, 2)
}

func TestMergeSuggested_Panics(t *testing.T) {
	orders := mustParse(t, "orders.csv", "order_id,total\n1,9.5\n")
	customers := mustParse(t, "customers.csv", "customer_id,order_id\n10,1\n")

	structure := analyze(t, ExtractAll([]*models.ParsedFile{orders, customers}, DefaultMetadataOptions()), DefaultAnalysisOptions())

	assert.Panics(t, func() { MergeSuggested([]*models.ParsedFile{orders}, structure, DefaultDateRatio) }, "suggestion names a missing file")
	assert.Panics(t, func() { MergeSuggested([]*models.ParsedFile{orders}, &models.Structure{}, DefaultDateRatio) }, "no suggestion")
	assert.Panics(t, func() { MergeSuggested([]*models.ParsedFile{orders}, nil, DefaultDateRatio) })
}

func TestMergeSuggested_RepeatedFileNamePanics(t *testing.T) {
	first := mustParse(t, "data.csv", "id\n1\n2\n")
	second := mustParse(t, "data.csv", "id\n3\n")
	files := []*models.ParsedFile{first, second}

	structure := analyze(t, ExtractAll(files, DefaultMetadataOptions()), DefaultAnalysisOptions())
	require.NotNil(t, structure.SuggestedMerge)

	assert.Panics(t, func() { MergeSuggested(files, structure, DefaultDateRatio) })
}

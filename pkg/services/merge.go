package services

import (
	"fmt"
	"slices"

	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
)

// MergeFiles combines parsed files into one row set. Source files are only read.
//
// Homogeneous: the first file's column list, rows concatenated in file order.
// Columns of later files are matched by name (the k-th occurrence of a name
// maps to the k-th occurrence), so a different column order is tolerated.
//
// Heterogeneous: the union of all column names in first-seen order. Each
// merged row carries a value for every union column, absent when its file
// lacks the column. When a file repeats a name, its first occurrence is used.
//
// Every merged row records its origin file and row index. Each file's column
// types are inferred with dateRatio; a merged column gets the type shared by
// all contributing columns, or text when they disagree.
//
// MergeFiles panics when files is empty or the strategy is not valid;
// callers obtain both from a structure analysis first.
func MergeFiles(files []*models.ParsedFile, strategy models.MergeStrategy, dateRatio float64) *models.MergedData {
	if len(files) == 0 {
		panic("merge: no files to merge")
	}
	if !models.IsValidMergeStrategy(strategy) {
		panic(fmt.Sprintf("merge: invalid strategy %q", strategy))
	}

	var (
		columns  []models.Column
		mappings [][]int // mappings[f][i] is the source position in files[f] of merged column i, or -1
	)
	switch strategy {
	case models.MergeStrategyHomogeneous:
		columns, mappings = homogeneousLayout(files)
	case models.MergeStrategyHeterogeneous:
		columns, mappings = heterogeneousLayout(files)
	}

	fileTypes := make([][]models.ColumnType, len(files))
	for f, file := range files {
		fileTypes[f] = InferFileTypes(file, dateRatio)
	}
	for i := range columns {
		var contributing []models.ColumnType
		for f := range files {
			if src := mappings[f][i]; src >= 0 {
				contributing = append(contributing, fileTypes[f][src])
			}
		}
		columns[i].Type = agreedType(contributing)
	}

	merged := &models.MergedData{
		Columns:     columns,
		Rows:        []models.Row{},
		SourceFiles: make([]string, len(files)),
		Strategy:    strategy,
	}

	for f, file := range files {
		merged.SourceFiles[f] = file.FileName
		identity := isIdentity(mappings[f], len(file.Columns))
		for idx, row := range file.Rows {
			merged.Rows = append(merged.Rows, remapRow(row, mappings[f], identity, file.FileName, idx))
		}
	}

	return merged
}

// MergeSuggested executes the merge a structure analysis suggested, using
// the files it names in the order it names them. Files are looked up by
// name, so names must be unique within files. It panics when the structure
// carries no suggestion, when files repeats a name, or when the suggestion
// names a file that is not in files.
func MergeSuggested(files []*models.ParsedFile, structure *models.Structure, dateRatio float64) *models.MergedData {
	if structure == nil || structure.SuggestedMerge == nil {
		panic("merge: structure has no merge suggestion")
	}

	byName := make(map[string]*models.ParsedFile, len(files))
	for _, f := range files {
		if _, dup := byName[f.FileName]; dup {
			panic(fmt.Sprintf("merge: file name %q appears more than once", f.FileName))
		}
		byName[f.FileName] = f
	}

	selected := make([]*models.ParsedFile, 0, len(structure.SuggestedMerge.Files))
	for _, name := range structure.SuggestedMerge.Files {
		f, ok := byName[name]
		if !ok {
			panic(fmt.Sprintf("merge: suggested file %q is not in the provided set", name))
		}
		selected = append(selected, f)
	}

	return MergeFiles(selected, structure.SuggestedMerge.Strategy, dateRatio)
}

func homogeneousLayout(files []*models.ParsedFile) ([]models.Column, [][]int) {
	first := files[0]
	columns := make([]models.Column, len(first.Columns))
	for i, c := range first.Columns {
		columns[i] = models.Column{Name: c.Name, Position: i}
	}

	mappings := make([][]int, len(files))
	for f, file := range files {
		occurrences := make(map[string][]int)
		for _, c := range file.Columns {
			occurrences[c.Name] = append(occurrences[c.Name], c.Position)
		}
		mapping := make([]int, len(columns))
		for i, c := range columns {
			if pos := occurrences[c.Name]; len(pos) > 0 {
				mapping[i] = pos[0]
				occurrences[c.Name] = pos[1:]
			} else {
				mapping[i] = -1
			}
		}
		mappings[f] = mapping
	}
	return columns, mappings
}

func heterogeneousLayout(files []*models.ParsedFile) ([]models.Column, [][]int) {
	index := make(map[string]int)
	var columns []models.Column
	for _, file := range files {
		for _, c := range file.Columns {
			if _, ok := index[c.Name]; ok {
				continue
			}
			index[c.Name] = len(columns)
			columns = append(columns, models.Column{Name: c.Name, Position: len(columns)})
		}
	}

	mappings := make([][]int, len(files))
	for f, file := range files {
		mapping := make([]int, len(columns))
		for i := range mapping {
			mapping[i] = -1
		}
		for _, c := range file.Columns {
			if i := index[c.Name]; mapping[i] < 0 {
				mapping[i] = c.Position
			}
		}
		mappings[f] = mapping
	}
	return columns, mappings
}

// remapRow builds a merged row from a source row. With an identity mapping
// the raw fields are kept as parsed; otherwise they are realigned to the
// merged columns with "" for columns the source lacks. Inconsistent is
// copied from the source row either way.
func remapRow(row models.Row, mapping []int, identity bool, fileName string, index int) models.Row {
	out := models.Row{
		Values:       make([]models.CellValue, len(mapping)),
		Inconsistent: row.Inconsistent,
		Origin:       &models.RowOrigin{FileName: fileName, RowIndex: index},
	}

	if identity {
		out.RawFields = slices.Clone(row.RawFields)
	} else {
		out.RawFields = make([]string, len(mapping))
	}

	for i, src := range mapping {
		if src < 0 {
			out.Values[i] = models.AbsentCell()
			continue
		}
		out.Values[i] = row.Value(src)
		if !identity && src < len(row.RawFields) {
			out.RawFields[i] = row.RawFields[src]
		}
	}
	return out
}

func isIdentity(mapping []int, width int) bool {
	if len(mapping) != width {
		return false
	}
	for i, src := range mapping {
		if src != i {
			return false
		}
	}
	return true
}

// agreedType ignores unknown (all-absent) contributions; if the rest share
// one type that type wins, otherwise the column is text.
func agreedType(types []models.ColumnType) models.ColumnType {
	agreed := models.ColumnTypeUnknown
	for _, t := range types {
		if t == models.ColumnTypeUnknown {
			continue
		}
		if agreed == models.ColumnTypeUnknown {
			agreed = t
			continue
		}
		if t != agreed {
			return models.ColumnTypeText
		}
	}
	return agreed
}

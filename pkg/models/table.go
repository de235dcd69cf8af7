package models

import "slices"

// ColumnType is the dominant type assigned to a column.
type ColumnType string

const (
	ColumnTypeText    ColumnType = "text"
	ColumnTypeNumber  ColumnType = "number"
	ColumnTypeDate    ColumnType = "date"
	ColumnTypeBoolean ColumnType = "boolean"
	ColumnTypeUnknown ColumnType = "unknown"
)

// ValidColumnTypes contains all valid column type values.
var ValidColumnTypes = []ColumnType{
	ColumnTypeText,
	ColumnTypeNumber,
	ColumnTypeDate,
	ColumnTypeBoolean,
	ColumnTypeUnknown,
}

// IsValidColumnType checks if the given column type is valid.
func IsValidColumnType(t ColumnType) bool {
	return slices.Contains(ValidColumnTypes, t)
}

// Delimiter is the field separator detected for a text file.
type Delimiter string

const (
	DelimiterComma     Delimiter = ","
	DelimiterSemicolon Delimiter = ";"
	DelimiterTab       Delimiter = "\t"
	DelimiterNone      Delimiter = "" // Workbook sheets have no delimiter
)

// DelimiterPrecedence lists candidate delimiters in tie-break order.
var DelimiterPrecedence = []Delimiter{
	DelimiterComma,
	DelimiterSemicolon,
	DelimiterTab,
}

// Name returns a readable name for the delimiter.
func (d Delimiter) Name() string {
	switch d {
	case DelimiterComma:
		return "comma"
	case DelimiterSemicolon:
		return "semicolon"
	case DelimiterTab:
		return "tab"
	default:
		return "none"
	}
}

// Column is a single column of a parsed file. Identity within a file is the
// Position; names may repeat and are only a heuristic signal.
type Column struct {
	Name     string     `json:"name" yaml:"name"`
	Type     ColumnType `json:"type" yaml:"type"`
	Position int        `json:"position" yaml:"position"`
}

// RowOrigin points a merged row back at the file and row index it came from.
type RowOrigin struct {
	FileName string `json:"file_name" yaml:"file_name"`
	RowIndex int    `json:"row_index" yaml:"row_index"`
}

// Row is one data line of a parsed file.
//
// Values always has one entry per column. RawFields holds the tokenized field
// strings before coercion; its length differs from the column count only when
// Inconsistent is set. On merged rows Inconsistent describes the source row;
// see MergedData.
type Row struct {
	Values       []CellValue `json:"values" yaml:"values"`
	RawFields    []string    `json:"raw_fields" yaml:"raw_fields"`
	Inconsistent bool        `json:"inconsistent,omitempty" yaml:"inconsistent,omitempty"`
	Origin       *RowOrigin  `json:"origin,omitempty" yaml:"origin,omitempty"`
}

// Value returns the cell at the given column position, or absent when the
// position is out of range.
func (r Row) Value(position int) CellValue {
	if position < 0 || position >= len(r.Values) {
		return AbsentCell()
	}
	return r.Values[position]
}

// ParsedFile is the typed grid produced by the parser for one input.
// Rows keep their source order; the row index is a stable identifier.
type ParsedFile struct {
	FileName  string    `json:"file_name" yaml:"file_name"`
	Delimiter Delimiter `json:"delimiter" yaml:"delimiter"`
	HasHeader bool      `json:"has_header" yaml:"has_header"`
	Columns   []Column  `json:"columns" yaml:"columns"`
	Rows      []Row     `json:"rows" yaml:"rows"`
}

// ColumnNames returns the column names in position order.
func (f *ParsedFile) ColumnNames() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnValues returns every value observed at the given position, in row order.
func (f *ParsedFile) ColumnValues(position int) []CellValue {
	values := make([]CellValue, 0, len(f.Rows))
	for _, r := range f.Rows {
		values = append(values, r.Value(position))
	}
	return values
}

// Metadata is the immutable descriptor of one parsed file.
type Metadata struct {
	FileName    string       `json:"file_name" yaml:"file_name"`
	Columns     []Column     `json:"columns" yaml:"columns"`
	ColumnTypes []ColumnType `json:"column_types" yaml:"column_types"`
	Sample      []Row        `json:"sample" yaml:"sample"`
	RowCount    int          `json:"row_count" yaml:"row_count"`
	HasHeader   bool         `json:"has_header" yaml:"has_header"`
	Delimiter   Delimiter    `json:"delimiter" yaml:"delimiter"`
}

// ColumnNames returns the column names in position order.
func (m *Metadata) ColumnNames() []string {
	names := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		names[i] = c.Name
	}
	return names
}

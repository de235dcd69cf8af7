// Package parser turns raw delimited text and spreadsheet workbooks into
// typed grids.
package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ekaya-inc/ekaya-tabular/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
)

// ParseFile parses delimited text into a ParsedFile.
//
// The delimiter is detected from the first non-blank line. That line is the
// header when more than half of its fields are non-numeric; otherwise
// columns are named "Column 1".."Column N" and the line is data. Column
// types are left as unknown; type inference runs on the parsed grid.
func ParseFile(fileName, content string) (*models.ParsedFile, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewParseError(fileName, apperrors.ErrEmptyInput)
	}

	lines := SplitLines(content)
	delim := DetectDelimiter(lines[0])

	grid := make([][]string, len(lines))
	for i, line := range lines {
		grid[i] = SplitFields(line, delim)
	}

	return buildFile(fileName, grid, delim, false)
}

// ParseBytes decodes raw bytes and parses the resulting text.
func ParseBytes(fileName string, data []byte) (*models.ParsedFile, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, apperrors.NewParseError(fileName, apperrors.ErrEmptyInput)
	}
	text, err := Decode(data)
	if err != nil {
		return nil, apperrors.NewParseError(fileName, err)
	}
	return ParseFile(fileName, text)
}

// LooksLikeHeader reports whether more than half of the fields are
// non-numeric. Empty fields count as non-numeric.
func LooksLikeHeader(fields []string) bool {
	nonNumeric := 0
	for _, f := range fields {
		if !IsNumeric(f) {
			nonNumeric++
		}
	}
	return nonNumeric*2 > len(fields)
}

// buildFile assembles a ParsedFile from tokenized lines. padShort treats
// rows shorter than the header as complete (spreadsheets omit trailing
// empty cells); for delimited text a short row is inconsistent.
func buildFile(fileName string, grid [][]string, delim models.Delimiter, padShort bool) (*models.ParsedFile, error) {
	if len(grid) == 0 {
		return nil, apperrors.NewParseError(fileName, apperrors.ErrEmptyInput)
	}

	hasHeader := LooksLikeHeader(grid[0])
	width := len(grid[0])

	columns := make([]models.Column, width)
	for i := 0; i < width; i++ {
		name := fmt.Sprintf("Column %d", i+1)
		if hasHeader {
			name = NormalizeHeader(grid[0][i])
		}
		columns[i] = models.Column{Name: name, Type: models.ColumnTypeUnknown, Position: i}
	}

	data := grid
	if hasHeader {
		data = grid[1:]
	}

	rows := make([]models.Row, 0, len(data))
	for _, fields := range data {
		if padShort && len(fields) < width {
			padded := make([]string, width)
			copy(padded, fields)
			fields = padded
		}
		row := models.Row{
			Values:       make([]models.CellValue, width),
			RawFields:    fields,
			Inconsistent: len(fields) != width,
		}
		for i := 0; i < width; i++ {
			if i < len(fields) {
				row.Values[i] = CoerceValue(fields[i])
			} else {
				row.Values[i] = models.AbsentCell()
			}
		}
		rows = append(rows, row)
	}

	return &models.ParsedFile{
		FileName:  fileName,
		Delimiter: delim,
		HasHeader: hasHeader,
		Columns:   columns,
		Rows:      rows,
	}, nil
}

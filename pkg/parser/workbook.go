package parser

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ekaya-inc/ekaya-tabular/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
)

// IsWorkbook reports whether fileName names a spreadsheet workbook.
func IsWorkbook(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}

// SheetFileName is the file name given to one sheet of a workbook.
func SheetFileName(fileName, sheet string) string {
	return fmt.Sprintf("%s[%s]", fileName, sheet)
}

// ParseWorkbook parses every non-empty sheet of a workbook into its own
// ParsedFile, in sheet order. Sheets use the same header detection and
// coercion as delimited text. Trailing empty cells omitted by the workbook
// are treated as absent rather than as a field count mismatch; rows wider
// than the first row are still inconsistent.
func ParseWorkbook(fileName string, data []byte) ([]*models.ParsedFile, error) {
	if len(data) == 0 {
		return nil, apperrors.NewParseError(fileName, apperrors.ErrEmptyInput)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewParseError(fileName, fmt.Errorf("%w: %v", apperrors.ErrUnreadableStructure, err))
	}
	defer f.Close()

	var files []*models.ParsedFile
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, apperrors.NewParseError(fileName, fmt.Errorf("%w: sheet %q: %v", apperrors.ErrUnreadableStructure, sheet, err))
		}

		grid := sheetGrid(rows)
		if len(grid) == 0 {
			continue
		}

		pf, err := buildFile(SheetFileName(fileName, sheet), grid, models.DelimiterNone, true)
		if err != nil {
			return nil, err
		}
		files = append(files, pf)
	}

	if len(files) == 0 {
		return nil, apperrors.NewParseError(fileName, apperrors.ErrEmptyInput)
	}
	return files, nil
}

// sheetGrid trims every cell and drops rows with no content.
func sheetGrid(rows [][]string) [][]string {
	grid := make([][]string, 0, len(rows))
	for _, row := range rows {
		blank := true
		fields := make([]string, len(row))
		for i, cell := range row {
			fields[i] = strings.TrimSpace(cell)
			if fields[i] != "" {
				blank = false
			}
		}
		if !blank {
			grid = append(grid, fields)
		}
	}
	return grid
}

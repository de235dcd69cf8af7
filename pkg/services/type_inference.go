package services

import (
	"regexp"

	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
)

// DefaultDateRatio is the share of non-absent values that must look like
// dates for a column to be typed as date.
const DefaultDateRatio = 0.8

// datePattern matches a leading YYYY-MM-DD; anything may follow (time, zone).
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// InferColumnType returns the dominant type of a column from every value
// observed in it. Absent values are ignored. Rules, in order:
//   - no non-absent values: unknown
//   - all boolean: boolean
//   - all number: number
//   - at least dateRatio of the values are date-like text: date
//   - otherwise: text
func InferColumnType(values []models.CellValue, dateRatio float64) models.ColumnType {
	var present, booleans, numbers, dates int

	for _, v := range values {
		switch v.Kind() {
		case models.CellAbsent:
			continue
		case models.CellBoolean:
			booleans++
		case models.CellNumber:
			numbers++
		case models.CellText:
			if s, _ := v.Text(); datePattern.MatchString(s) {
				dates++
			}
		}
		present++
	}

	switch {
	case present == 0:
		return models.ColumnTypeUnknown
	case booleans == present:
		return models.ColumnTypeBoolean
	case numbers == present:
		return models.ColumnTypeNumber
	case float64(dates) >= dateRatio*float64(present):
		return models.ColumnTypeDate
	default:
		return models.ColumnTypeText
	}
}

// InferFileTypes infers the type of every column of a parsed file, by position.
func InferFileTypes(file *models.ParsedFile, dateRatio float64) []models.ColumnType {
	types := make([]models.ColumnType, len(file.Columns))
	for i := range file.Columns {
		types[i] = InferColumnType(file.ColumnValues(i), dateRatio)
	}
	return types
}

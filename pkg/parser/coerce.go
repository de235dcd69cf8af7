package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
)

// numericPattern accepts plain decimal and scientific notation with an
// optional sign. Hex, inf and nan spellings are rejected even though
// strconv accepts them.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// CoerceValue converts one trimmed field into a cell:
//   - "" becomes absent
//   - "true" / "false" (any case) become booleans
//   - finite decimal numbers become numbers
//   - anything else stays text
func CoerceValue(field string) models.CellValue {
	if field == "" {
		return models.AbsentCell()
	}
	if strings.EqualFold(field, "true") {
		return models.BoolCell(true)
	}
	if strings.EqualFold(field, "false") {
		return models.BoolCell(false)
	}
	if f, ok := parseFinite(field); ok {
		return models.NumberCell(f)
	}
	return models.TextCell(field)
}

// IsNumeric reports whether field would coerce to a number.
func IsNumeric(field string) bool {
	_, ok := parseFinite(field)
	return ok
}

func parseFinite(field string) (float64, bool) {
	if !numericPattern.MatchString(field) {
		return 0, false
	}
	f, err := strconv.ParseFloat(field, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

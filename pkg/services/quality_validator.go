package services

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/ekaya-tabular/pkg/contentscan"
	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
)

// QualityOptions sets the thresholds used by CheckQuality.
type QualityOptions struct {
	CompletenessThreshold float64 // Completeness below this raises an issue
	MinRows               int     // Fewer data rows than this raises an issue
	ScanContent           bool    // Run contentscan over text cells
	MaxContentFindings    int     // Cap on content issues; 0 means no cap
}

// DefaultQualityOptions returns sensible defaults.
func DefaultQualityOptions() QualityOptions {
	return QualityOptions{
		CompletenessThreshold: 0.8,
		MinRows:               10,
		ScanContent:           true,
		MaxContentFindings:    20,
	}
}

// Validate checks the structural validity of a parsed file.
//
// Errors (file is invalid):
//   - no data rows or no columns
//   - a column name used more than once
//
// Warnings:
//   - rows whose raw field count differs from the column count
//   - columns with no value in any row
func Validate(file *models.ParsedFile) models.ValidationResult {
	result := models.ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	if len(file.Rows) == 0 || len(file.Columns) == 0 {
		result.Errors = append(result.Errors, "dataset is empty: no data rows")
	}

	result.Errors = append(result.Errors, duplicateNames(file.Columns)...)

	if n := countInconsistentRows(file); n > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d row(s) have a field count different from the %d column(s)", n, len(file.Columns)))
	}

	if len(file.Rows) > 0 {
		for _, c := range file.Columns {
			if columnIsEmpty(file, c.Position) {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("column %q (position %d) has no values", c.Name, c.Position))
			}
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// CheckQuality scores completeness and consistency of a parsed file and
// lists advisory issues. A file with no data rows scores 0 on both.
func CheckQuality(file *models.ParsedFile, opts QualityOptions) models.QualityReport {
	report := models.QualityReport{Issues: []string{}}

	rows := len(file.Rows)
	totalCells := rows * len(file.Columns)
	if rows == 0 || totalCells == 0 {
		report.Issues = append(report.Issues, "dataset has no data cells to score")
		return report
	}

	absent := 0
	for _, r := range file.Rows {
		for _, v := range r.Values {
			if v.IsAbsent() {
				absent++
			}
		}
	}
	inconsistent := countInconsistentRows(file)

	report.Completeness = 1 - float64(absent)/float64(totalCells)
	report.Consistency = 1 - float64(inconsistent)/float64(rows)

	if report.Completeness < opts.CompletenessThreshold {
		report.Issues = append(report.Issues,
			fmt.Sprintf("low completeness: %.1f%% of cells have values (threshold %.1f%%)",
				report.Completeness*100, opts.CompletenessThreshold*100))
	}
	if inconsistent > 0 {
		report.Issues = append(report.Issues,
			fmt.Sprintf("inconsistent structure: %d of %d row(s) have a mismatched field count", inconsistent, rows))
	}
	if rows < opts.MinRows {
		report.Issues = append(report.Issues,
			fmt.Sprintf("small dataset: %d row(s), fewer than %d", rows, opts.MinRows))
	}

	if opts.ScanContent {
		for _, f := range contentscan.ScanFile(file, opts.MaxContentFindings) {
			report.Issues = append(report.Issues, f.String())
		}
	}

	return report
}

// duplicateNames returns one error message per column name that appears
// more than once, in order of first appearance.
func duplicateNames(columns []models.Column) []string {
	positions := make(map[string][]int)
	var order []string
	for _, c := range columns {
		if _, ok := positions[c.Name]; !ok {
			order = append(order, c.Name)
		}
		positions[c.Name] = append(positions[c.Name], c.Position)
	}

	var msgs []string
	for _, name := range order {
		pos := positions[name]
		if len(pos) < 2 {
			continue
		}
		parts := make([]string, len(pos))
		for i, p := range pos {
			parts[i] = fmt.Sprint(p)
		}
		msgs = append(msgs, fmt.Sprintf("duplicate column name %q at positions %s", name, strings.Join(parts, ", ")))
	}
	return msgs
}

func countInconsistentRows(file *models.ParsedFile) int {
	n := 0
	for _, r := range file.Rows {
		if r.Inconsistent || (r.RawFields != nil && len(r.RawFields) != len(file.Columns)) {
			n++
		}
	}
	return n
}

func columnIsEmpty(file *models.ParsedFile, position int) bool {
	for _, r := range file.Rows {
		if !r.Value(position).IsAbsent() {
			return false
		}
	}
	return true
}

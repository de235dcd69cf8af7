// Package contentscan flags cell text that is dangerous to pass on to a
// database, a browser, or a spreadsheet application.
package contentscan

import (
	"fmt"
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
)

// FindingKind names the class of payload detected.
type FindingKind string

const (
	FindingSQLInjection     FindingKind = "sql_injection"
	FindingXSS              FindingKind = "xss"
	FindingFormulaInjection FindingKind = "formula_injection"
)

// Finding describes one suspicious cell.
type Finding struct {
	Kind        FindingKind
	ColumnName  string
	RowIndex    int
	Fingerprint string // libinjection fingerprint, only set for SQL injection
}

// String renders the finding as a quality issue line.
func (f Finding) String() string {
	switch f.Kind {
	case FindingSQLInjection:
		return fmt.Sprintf("row %d column %q: possible SQL injection (fingerprint %s)", f.RowIndex, f.ColumnName, f.Fingerprint)
	case FindingXSS:
		return fmt.Sprintf("row %d column %q: possible script injection", f.RowIndex, f.ColumnName)
	default:
		return fmt.Sprintf("row %d column %q: value starts a spreadsheet formula", f.RowIndex, f.ColumnName)
	}
}

// formulaPrefixes start a formula when a CSV is opened in a spreadsheet.
var formulaPrefixes = []string{"=", "+", "-", "@"}

// CheckValue inspects a single text value. Returns nil when the value is
// clean. Only the first matching kind is reported, checked in order
// SQL injection, script injection, formula.
//
// Example:
//
//	f := CheckValue("'; DROP TABLE users--")
//	// f.Kind == FindingSQLInjection
func CheckValue(value string) *Finding {
	if value == "" {
		return nil
	}

	if isSQLi, fingerprint := libinjection.IsSQLi(value); isSQLi {
		return &Finding{Kind: FindingSQLInjection, Fingerprint: string(fingerprint)}
	}

	if libinjection.IsXSS(value) {
		return &Finding{Kind: FindingXSS}
	}

	for _, p := range formulaPrefixes {
		if strings.HasPrefix(value, p) && len(value) > 1 {
			return &Finding{Kind: FindingFormulaInjection}
		}
	}

	return nil
}

// ScanFile checks every text cell of a parsed file. Numbers and booleans
// cannot carry a payload and are skipped. At most limit findings are
// returned; limit <= 0 means no limit.
func ScanFile(file *models.ParsedFile, limit int) []Finding {
	var findings []Finding
	for rowIndex, row := range file.Rows {
		for pos, v := range row.Values {
			text, ok := v.Text()
			if !ok {
				continue
			}
			f := CheckValue(text)
			if f == nil {
				continue
			}
			f.RowIndex = rowIndex
			if pos < len(file.Columns) {
				f.ColumnName = file.Columns[pos].Name
			}
			findings = append(findings, *f)
			if limit > 0 && len(findings) >= limit {
				return findings
			}
		}
	}
	return findings
}

package models

// ValidationResult is the structural validity verdict for one parsed file.
// Errors make the file invalid; warnings are advisory. Neither blocks
// downstream processing.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid" yaml:"is_valid"`
	Errors   []string `json:"errors" yaml:"errors"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// QualityReport scores completeness and consistency of one parsed file.
type QualityReport struct {
	Completeness float64  `json:"completeness" yaml:"completeness"` // 1 - absent cells / total cells
	Consistency  float64  `json:"consistency" yaml:"consistency"`   // 1 - mismatched rows / total rows
	Issues       []string `json:"issues" yaml:"issues"`
}

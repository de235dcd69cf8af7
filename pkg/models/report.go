package models

import "github.com/google/uuid"

// FileReport bundles the per-file outputs of a pipeline run.
type FileReport struct {
	Metadata   *Metadata        `json:"metadata" yaml:"metadata"`
	Validation ValidationResult `json:"validation" yaml:"validation"`
	Quality    QualityReport    `json:"quality" yaml:"quality"`
}

// FileFailure records an input that could not be parsed.
type FileFailure struct {
	FileName string `json:"file_name" yaml:"file_name"`
	Error    string `json:"error" yaml:"error"`
}

// AnalysisReport is everything a pipeline run produced for one batch of inputs.
type AnalysisReport struct {
	BatchID   uuid.UUID     `json:"batch_id" yaml:"batch_id"`
	Files     []FileReport  `json:"files" yaml:"files"`
	Failures  []FileFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
	Structure *Structure    `json:"structure" yaml:"structure"`
	Merged    *MergedData   `json:"merged,omitempty" yaml:"merged,omitempty"`
}

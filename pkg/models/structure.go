package models

import "slices"

// RelationKind classifies a derived relation between columns.
type RelationKind string

// Relation kinds. RelationKindCategory and RelationKindSemantic are part of the
// model for consumers; the analyzer currently derives key and temporal relations
// and reports name similarity as SemanticOverlap.
const (
	RelationKindKey      RelationKind = "key"
	RelationKindTemporal RelationKind = "temporal"
	RelationKindCategory RelationKind = "category"
	RelationKindSemantic RelationKind = "semantic"
)

// ValidRelationKinds contains all valid relation kinds.
var ValidRelationKinds = []RelationKind{
	RelationKindKey,
	RelationKindTemporal,
	RelationKindCategory,
	RelationKindSemantic,
}

// IsValidRelationKind checks if the given relation kind is valid.
func IsValidRelationKind(k RelationKind) bool {
	return slices.Contains(ValidRelationKinds, k)
}

// ColumnRef identifies a column by file and name. Position disambiguates
// repeated names inside one file.
type ColumnRef struct {
	FileName   string `json:"file_name" yaml:"file_name"`
	ColumnName string `json:"column_name" yaml:"column_name"`
	Position   int    `json:"position" yaml:"position"`
}

// Relation is a derived fact about two columns (or one column, for temporal).
// Relations are recomputed on every analysis and never mutated.
type Relation struct {
	Kind        RelationKind `json:"kind" yaml:"kind"`
	Source      ColumnRef    `json:"source" yaml:"source"`
	Target      ColumnRef    `json:"target" yaml:"target"`
	Confidence  float64      `json:"confidence" yaml:"confidence"` // 0.0 - 1.0
	Description string       `json:"description" yaml:"description"`
}

// SemanticOverlap is a symmetric name-similarity link between two columns.
// Each unordered pair is reported once.
type SemanticOverlap struct {
	ColumnA     ColumnRef `json:"column_a" yaml:"column_a"`
	ColumnB     ColumnRef `json:"column_b" yaml:"column_b"`
	Similarity  float64   `json:"similarity" yaml:"similarity"` // 0.0 - 1.0
	Description string    `json:"description" yaml:"description"`
}

// MergeStrategy selects how files are combined.
type MergeStrategy string

const (
	MergeStrategyHomogeneous   MergeStrategy = "homogeneous"
	MergeStrategyHeterogeneous MergeStrategy = "heterogeneous"
)

// ValidMergeStrategies contains all valid merge strategies.
var ValidMergeStrategies = []MergeStrategy{
	MergeStrategyHomogeneous,
	MergeStrategyHeterogeneous,
}

// IsValidMergeStrategy checks if the given strategy is valid.
func IsValidMergeStrategy(s MergeStrategy) bool {
	return slices.Contains(ValidMergeStrategies, s)
}

// MergeSuggestion is the analyzer's recommendation for combining files.
type MergeSuggestion struct {
	Files       []string      `json:"files" yaml:"files"`
	Strategy    MergeStrategy `json:"strategy" yaml:"strategy"`
	Assumptions []string      `json:"assumptions" yaml:"assumptions"`
}

// Structure is the result of one structure analysis call.
type Structure struct {
	Tables         []*Metadata       `json:"tables" yaml:"tables"`
	Relations      []Relation        `json:"relations" yaml:"relations"`
	Overlaps       []SemanticOverlap `json:"overlaps" yaml:"overlaps"`
	SuggestedMerge *MergeSuggestion  `json:"suggested_merge,omitempty" yaml:"suggested_merge,omitempty"`
}

// RelationsOfKind returns the relations with the given kind, in order.
func (s *Structure) RelationsOfKind(kind RelationKind) []Relation {
	var out []Relation
	for _, r := range s.Relations {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// MergedData is the row set produced by executing a merge.
//
// A merged row keeps the Inconsistent flag of the source row it came from.
// When the merge remaps columns, its RawFields are realigned to Columns, so
// an inconsistent merged row may have one raw field per column.
type MergedData struct {
	Columns     []Column      `json:"columns" yaml:"columns"`
	Rows        []Row         `json:"rows" yaml:"rows"`
	SourceFiles []string      `json:"source_files" yaml:"source_files"`
	Strategy    MergeStrategy `json:"strategy" yaml:"strategy"`
}

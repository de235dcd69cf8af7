package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jinzhu/inflection"
	"golang.org/x/sync/errgroup"

	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
)

// AnalysisOptions holds the thresholds and confidences of the structure analyzer.
type AnalysisOptions struct {
	SimilarityThreshold float64 // Overlaps are reported only above this score
	KeyConfidence       float64 // Confidence assigned to key relations
	TemporalConfidence  float64 // Confidence assigned to temporal relations
}

// DefaultAnalysisOptions returns sensible defaults.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		SimilarityThreshold: 0.7,
		KeyConfidence:       0.8,
		TemporalConfidence:  0.9,
	}
}

// temporalHints are name fragments that mark a column as time-related.
var temporalHints = []string{"date", "time", "timestamp", "created", "updated"}

// AnalyzeStructure derives relations, name overlaps, and a merge suggestion
// across a set of file descriptors. The key, temporal, and overlap passes
// read the metadata concurrently; the merge suggestion is decided after all
// of them finish. Metadata is never modified. The only error is ctx being
// done before the passes complete, in which case no Structure is returned.
func AnalyzeStructure(ctx context.Context, metas []*models.Metadata, opts AnalysisOptions) (*models.Structure, error) {
	var (
		keys      []models.Relation
		temporals []models.Relation
		overlaps  []models.SemanticOverlap
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		keys, err = keyRelations(gctx, metas, opts.KeyConfidence)
		return err
	})
	g.Go(func() error {
		var err error
		temporals, err = temporalRelations(gctx, metas, opts.TemporalConfidence)
		return err
	})
	g.Go(func() error {
		var err error
		overlaps, err = semanticOverlaps(gctx, metas, opts.SimilarityThreshold)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyze structure: %w", err)
	}

	relations := make([]models.Relation, 0, len(keys)+len(temporals))
	relations = append(relations, keys...)
	relations = append(relations, temporals...)
	if overlaps == nil {
		overlaps = []models.SemanticOverlap{}
	}

	return &models.Structure{
		Tables:         metas,
		Relations:      relations,
		Overlaps:       overlaps,
		SuggestedMerge: suggestMerge(metas),
	}, nil
}

// keyRelations emits one key relation per pair of files per shared column
// name. Names match exactly. The earlier file is the source.
func keyRelations(ctx context.Context, metas []*models.Metadata, confidence float64) ([]models.Relation, error) {
	var relations []models.Relation
	for i := 0; i < len(metas); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < len(metas); j++ {
			a, b := metas[i], metas[j]
			positionsB := firstPositions(b)
			for _, c := range uniqueColumns(a) {
				pb, ok := positionsB[c.Name]
				if !ok {
					continue
				}
				relations = append(relations, models.Relation{
					Kind:       models.RelationKindKey,
					Source:     models.ColumnRef{FileName: a.FileName, ColumnName: c.Name, Position: c.Position},
					Target:     models.ColumnRef{FileName: b.FileName, ColumnName: c.Name, Position: pb},
					Confidence: confidence,
					Description: fmt.Sprintf("%s.%s may join %s.%s",
						TableLabel(a.FileName), c.Name, TableLabel(b.FileName), c.Name),
				})
			}
		}
	}
	return relations, nil
}

// temporalRelations emits a self-referencing temporal relation for every
// date-typed column and every column whose name suggests time.
func temporalRelations(ctx context.Context, metas []*models.Metadata, confidence float64) ([]models.Relation, error) {
	var relations []models.Relation
	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i, c := range m.Columns {
			isDate := i < len(m.ColumnTypes) && m.ColumnTypes[i] == models.ColumnTypeDate
			if !isDate && !HasTemporalName(c.Name) {
				continue
			}
			ref := models.ColumnRef{FileName: m.FileName, ColumnName: c.Name, Position: c.Position}
			reason := "name suggests time"
			if isDate {
				reason = "values are dates"
			}
			relations = append(relations, models.Relation{
				Kind:        models.RelationKindTemporal,
				Source:      ref,
				Target:      ref,
				Confidence:  confidence,
				Description: fmt.Sprintf("%s.%s is temporal (%s)", TableLabel(m.FileName), c.Name, reason),
			})
		}
	}
	return relations, nil
}

// HasTemporalName reports whether a column name contains a time-related
// fragment, ignoring case.
func HasTemporalName(name string) bool {
	lower := strings.ToLower(name)
	for _, hint := range temporalHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

type columnAt struct {
	file   string
	column models.Column
}

// semanticOverlaps compares every unordered pair of columns across all
// files, including pairs inside one file. Each pair is reported once, with
// the earlier column as ColumnA.
func semanticOverlaps(ctx context.Context, metas []*models.Metadata, threshold float64) ([]models.SemanticOverlap, error) {
	var all []columnAt
	for _, m := range metas {
		for _, c := range m.Columns {
			all = append(all, columnAt{file: m.FileName, column: c})
		}
	}

	var overlaps []models.SemanticOverlap
	for i := 0; i < len(all); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < len(all); j++ {
			a, b := all[i], all[j]
			score := NameSimilarity(a.column.Name, b.column.Name)
			if score <= threshold {
				continue
			}
			overlaps = append(overlaps, models.SemanticOverlap{
				ColumnA:    models.ColumnRef{FileName: a.file, ColumnName: a.column.Name, Position: a.column.Position},
				ColumnB:    models.ColumnRef{FileName: b.file, ColumnName: b.column.Name, Position: b.column.Position},
				Similarity: score,
				Description: fmt.Sprintf("%s.%s and %s.%s have similar names (%.2f)",
					TableLabel(a.file), a.column.Name, TableLabel(b.file), b.column.Name, score),
			})
		}
	}
	return overlaps, nil
}

// NameSimilarity scores how alike two column names are, from 0 to 1:
//   - 1.0 when equal ignoring case
//   - 0.8 when one contains the other ignoring case
//   - otherwise 1 - editDistance / length of the longer name
//
// The score is symmetric. Empty names score 0.
func NameSimilarity(a, b string) float64 {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	// An empty header cell carries no name, so two of them are not similar.
	if la == "" || lb == "" {
		return 0
	}
	if la == lb {
		return 1.0
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return 0.8
	}

	ra, rb := []rune(la), []rune(lb)
	longest := max(len(ra), len(rb))
	return 1 - float64(levenshteinDistance(ra, rb))/float64(longest)
}

// levenshteinDistance calculates the edit distance between two rune slices.
func levenshteinDistance(s1, s2 []rune) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Use a single row of the DP table for space efficiency
	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = min(
				curr[j-1]+1,    // insertion
				prev[j]+1,      // deletion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

// suggestMerge recommends a strategy for two or more files: homogeneous
// when the column sets match, heterogeneous when at least one column name
// is common to all files, otherwise nothing.
func suggestMerge(metas []*models.Metadata) *models.MergeSuggestion {
	if len(metas) < 2 {
		return nil
	}

	files := make([]string, len(metas))
	for i, m := range metas {
		files[i] = m.FileName
	}

	if AreHomogeneous(metas) {
		return &models.MergeSuggestion{
			Files:       files,
			Strategy:    models.MergeStrategyHomogeneous,
			Assumptions: []string{fmt.Sprintf("identical column set across %d files", len(metas))},
		}
	}

	common := CommonColumnNames(metas)
	if len(common) == 0 {
		return nil
	}
	return &models.MergeSuggestion{
		Files:    files,
		Strategy: models.MergeStrategyHeterogeneous,
		Assumptions: []string{
			fmt.Sprintf("shares %d common column(s): %s", len(common), strings.Join(common, ", ")),
			"missing values filled with null",
		},
	}
}

// CommonColumnNames returns the names present in every file, in the order
// they first appear in the first file.
func CommonColumnNames(metas []*models.Metadata) []string {
	if len(metas) == 0 {
		return nil
	}
	others := make([]map[string]int, 0, len(metas)-1)
	for _, m := range metas[1:] {
		others = append(others, firstPositions(m))
	}

	var common []string
	for _, c := range uniqueColumns(metas[0]) {
		inAll := true
		for _, positions := range others {
			if _, ok := positions[c.Name]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			common = append(common, c.Name)
		}
	}
	return common
}

// TableLabel turns a file name into a short singular label for
// descriptions: "orders.csv" becomes "order", "book.xlsx[Customers]"
// becomes "customer". A "#N" duplicate suffix is kept: "orders.csv#2"
// becomes "order#2".
func TableLabel(fileName string) string {
	base, dup := splitDuplicateSuffix(filepath.Base(fileName))
	if open := strings.LastIndex(base, "["); open >= 0 && strings.HasSuffix(base, "]") {
		base = base[open+1 : len(base)-1]
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	base = strings.ToLower(strings.TrimSpace(base))
	if base == "" {
		return fileName
	}
	return inflection.Singular(base) + dup
}

// splitDuplicateSuffix separates the "#N" suffix ingestion gives repeated
// file names.
func splitDuplicateSuffix(name string) (string, string) {
	i := strings.LastIndex(name, "#")
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	for _, r := range name[i+1:] {
		if r < '0' || r > '9' {
			return name, ""
		}
	}
	return name[:i], name[i:]
}

// uniqueColumns returns the first column carrying each name, in position order.
func uniqueColumns(m *models.Metadata) []models.Column {
	seen := make(map[string]bool)
	var out []models.Column
	for _, c := range m.Columns {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out
}

// firstPositions maps each column name to the position of its first occurrence.
func firstPositions(m *models.Metadata) map[string]int {
	positions := make(map[string]int, len(m.Columns))
	for _, c := range m.Columns {
		if _, ok := positions[c.Name]; !ok {
			positions[c.Name] = c.Position
		}
	}
	return positions
}

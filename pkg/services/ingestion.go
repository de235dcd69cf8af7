package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-tabular/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-tabular/pkg/logging"
	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
	"github.com/ekaya-inc/ekaya-tabular/pkg/parser"
	"github.com/ekaya-inc/ekaya-tabular/pkg/workerpool"
)

// FileInput is one raw input handed to ingestion.
type FileInput struct {
	Name    string
	Content []byte
}

// IngestionResult is the outcome of parsing one batch of inputs.
// Files keep input order; a workbook contributes one file per sheet at
// the position of the workbook. File names are unique within a batch: a
// repeated name gets a "#2", "#3", ... suffix in input order.
type IngestionResult struct {
	BatchID  uuid.UUID
	Files    []*models.ParsedFile
	Failures []models.FileFailure
}

// IngestionService parses batches of raw inputs in parallel.
type IngestionService interface {
	// Ingest parses every input. A failing input is recorded in Failures and
	// never stops the others.
	Ingest(ctx context.Context, inputs []FileInput) *IngestionResult
}

// IngestionConfig bounds ingestion work.
type IngestionConfig struct {
	MaxConcurrent int   // Files parsed at once
	MaxFileBytes  int64 // Larger inputs are rejected; 0 disables the limit
}

// DefaultIngestionConfig returns sensible defaults.
func DefaultIngestionConfig() IngestionConfig {
	return IngestionConfig{
		MaxConcurrent: workerpool.DefaultConfig().MaxConcurrent,
		MaxFileBytes:  100 << 20,
	}
}

type ingestionService struct {
	config IngestionConfig
	pool   *workerpool.WorkerPool
	logger *zap.Logger
}

// NewIngestionService creates a new IngestionService.
func NewIngestionService(config IngestionConfig, logger *zap.Logger) IngestionService {
	return &ingestionService{
		config: config,
		pool:   workerpool.New(workerpool.Config{MaxConcurrent: config.MaxConcurrent}, logger),
		logger: logger.Named("ingestion"),
	}
}

var _ IngestionService = (*ingestionService)(nil)

// Ingest parses every input with bounded parallelism.
func (s *ingestionService) Ingest(ctx context.Context, inputs []FileInput) *IngestionResult {
	result := &IngestionResult{
		BatchID:  uuid.New(),
		Files:    []*models.ParsedFile{},
		Failures: []models.FileFailure{},
	}

	items := make([]workerpool.WorkItem[[]*models.ParsedFile], len(inputs))
	for i, in := range inputs {
		in := in
		items[i] = workerpool.WorkItem[[]*models.ParsedFile]{
			ID: in.Name,
			Execute: func(ctx context.Context) ([]*models.ParsedFile, error) {
				return s.parseInput(ctx, in)
			},
		}
	}

	results := workerpool.Process(ctx, s.pool, items, func(completed, total int) {
		s.logger.Debug("Parse progress",
			zap.Int("completed", completed),
			zap.Int("total", total))
	})

	for i, r := range results {
		if r.Err != nil {
			s.logger.Warn("Failed to parse file",
				zap.String("batch_id", result.BatchID.String()),
				zap.String("file", logging.SanitizeFileName(inputs[i].Name)),
				zap.String("error", logging.SanitizeError(r.Err)))
			result.Failures = append(result.Failures, models.FileFailure{
				FileName: inputs[i].Name,
				Error:    r.Err.Error(),
			})
			continue
		}
		result.Files = append(result.Files, r.Result...)
	}

	for _, renamed := range uniqueFileNames(result.Files) {
		s.logger.Warn("Renamed duplicate file name",
			zap.String("batch_id", result.BatchID.String()),
			zap.String("file", logging.SanitizeFileName(renamed)))
	}

	s.logger.Info("Ingested batch",
		zap.String("batch_id", result.BatchID.String()),
		zap.Int("inputs", len(inputs)),
		zap.Int("files", len(result.Files)),
		zap.Int("failures", len(result.Failures)))

	return result
}

func (s *ingestionService) parseInput(ctx context.Context, in FileInput) ([]*models.ParsedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.config.MaxFileBytes > 0 && int64(len(in.Content)) > s.config.MaxFileBytes {
		return nil, apperrors.NewParseError(in.Name,
			fmt.Errorf("%w: %d bytes exceeds limit of %d", apperrors.ErrFileTooLarge, len(in.Content), s.config.MaxFileBytes))
	}

	if parser.IsWorkbook(in.Name) {
		return parser.ParseWorkbook(in.Name, in.Content)
	}

	pf, err := parser.ParseBytes(in.Name, in.Content)
	if err != nil {
		var pe *apperrors.ParseError
		if !errors.As(err, &pe) {
			err = apperrors.NewParseError(in.Name, err)
		}
		return nil, err
	}
	return []*models.ParsedFile{pf}, nil
}

// uniqueFileNames renames every file whose name was already used earlier in
// files, appending "#N" with the smallest N that is not taken. It returns the
// new names.
func uniqueFileNames(files []*models.ParsedFile) []string {
	taken := make(map[string]bool, len(files))
	for _, f := range files {
		taken[f.FileName] = true
	}

	var renamed []string
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if !seen[f.FileName] {
			seen[f.FileName] = true
			continue
		}
		for n := 2; ; n++ {
			candidate := fmt.Sprintf("%s#%d", f.FileName, n)
			if !taken[candidate] {
				taken[candidate] = true
				seen[candidate] = true
				f.FileName = candidate
				renamed = append(renamed, candidate)
				break
			}
		}
	}
	return renamed
}

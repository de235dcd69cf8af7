package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-tabular/pkg/config"
	"github.com/ekaya-inc/ekaya-tabular/pkg/logging"
	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
)

// RunOptions selects optional pipeline stages.
type RunOptions struct {
	// Merge executes the suggested merge, if the analysis produced one.
	Merge bool
}

// PipelineService runs the full ingestion pipeline over a batch of inputs:
// parse, validate and score each file, extract metadata, analyze structure,
// and optionally merge.
type PipelineService interface {
	Run(ctx context.Context, inputs []FileInput, opts RunOptions) (*models.AnalysisReport, error)
}

// PipelineConfig carries the options of every pipeline stage.
type PipelineConfig struct {
	Metadata MetadataOptions
	Quality  QualityOptions
	Analysis AnalysisOptions
}

// DefaultPipelineConfig returns sensible defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Metadata: DefaultMetadataOptions(),
		Quality:  DefaultQualityOptions(),
		Analysis: DefaultAnalysisOptions(),
	}
}

// PipelineConfigFromConfig maps loaded configuration onto stage options.
func PipelineConfigFromConfig(cfg *config.Config) PipelineConfig {
	return PipelineConfig{
		Metadata: MetadataOptions{
			SampleSize: cfg.Analysis.SampleSize,
			DateRatio:  cfg.Analysis.DateRatio,
		},
		Quality: QualityOptions{
			CompletenessThreshold: cfg.Quality.CompletenessThreshold,
			MinRows:               cfg.Quality.MinRows,
			ScanContent:           !cfg.Quality.SkipContentScan,
			MaxContentFindings:    cfg.Quality.MaxContentFindings,
		},
		Analysis: AnalysisOptions{
			SimilarityThreshold: cfg.Analysis.SimilarityThreshold,
			KeyConfidence:       cfg.Analysis.KeyConfidence,
			TemporalConfidence:  cfg.Analysis.TemporalConfidence,
		},
	}
}

// IngestionConfigFromConfig maps loaded configuration onto ingestion limits.
func IngestionConfigFromConfig(cfg *config.Config) IngestionConfig {
	return IngestionConfig{
		MaxConcurrent: cfg.Ingest.MaxConcurrent,
		MaxFileBytes:  cfg.Ingest.MaxFileBytes,
	}
}

type pipelineService struct {
	ingestion IngestionService
	config    PipelineConfig
	logger    *zap.Logger
}

// NewPipelineService creates a new PipelineService.
func NewPipelineService(ingestion IngestionService, config PipelineConfig, logger *zap.Logger) PipelineService {
	return &pipelineService{
		ingestion: ingestion,
		config:    config,
		logger:    logger.Named("pipeline"),
	}
}

var _ PipelineService = (*pipelineService)(nil)

// Run executes the pipeline. Parse failures are isolated per input and
// reported in the result; every other stage works on the files that parsed.
// An error is returned only when ctx is done before the analysis finishes.
func (s *pipelineService) Run(ctx context.Context, inputs []FileInput, opts RunOptions) (*models.AnalysisReport, error) {
	ingested := s.ingestion.Ingest(ctx, inputs)

	report := &models.AnalysisReport{
		BatchID:  ingested.BatchID,
		Files:    make([]models.FileReport, 0, len(ingested.Files)),
		Failures: ingested.Failures,
	}

	metas := make([]*models.Metadata, 0, len(ingested.Files))
	for _, file := range ingested.Files {
		meta := ExtractMetadata(file, s.config.Metadata)
		validation := Validate(file)
		quality := CheckQuality(file, s.config.Quality)

		if !validation.IsValid {
			s.logger.Warn("File failed validation",
				zap.String("file", logging.SanitizeFileName(file.FileName)),
				zap.Strings("errors", validation.Errors))
		}

		metas = append(metas, meta)
		report.Files = append(report.Files, models.FileReport{
			Metadata:   meta,
			Validation: validation,
			Quality:    quality,
		})
	}

	structure, err := AnalyzeStructure(ctx, metas, s.config.Analysis)
	if err != nil {
		return nil, err
	}
	report.Structure = structure

	s.logger.Info("Analyzed structure",
		zap.String("batch_id", report.BatchID.String()),
		zap.Int("tables", len(metas)),
		zap.Int("relations", len(report.Structure.Relations)),
		zap.Int("overlaps", len(report.Structure.Overlaps)),
		zap.Bool("merge_suggested", report.Structure.SuggestedMerge != nil))

	if opts.Merge && report.Structure.SuggestedMerge != nil {
		report.Merged = MergeSuggested(ingested.Files, report.Structure, s.config.Metadata.DateRatio)
		s.logger.Info("Merged files",
			zap.String("strategy", string(report.Merged.Strategy)),
			zap.Int("rows", len(report.Merged.Rows)),
			zap.Int("columns", len(report.Merged.Columns)))
	}

	return report, nil
}

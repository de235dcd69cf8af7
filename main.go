package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/ekaya-tabular/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-tabular/pkg/config"
	"github.com/ekaya-inc/ekaya-tabular/pkg/logging"
	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
	"github.com/ekaya-inc/ekaya-tabular/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ekaya-tabular", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", config.DefaultPath, "Path to the YAML config file")
	format := fs.String("format", "json", "Report format: json or yaml")
	merge := fs.Bool("merge", false, "Execute the suggested merge and include the merged rows")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "ekaya-tabular %s\n\nUsage: ekaya-tabular [flags] FILE...\n\n", Version)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	if *format != "json" && *format != "yaml" {
		fmt.Fprintf(stderr, "unknown format %q\n", *format)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("version", Version),
		zap.Int("max_concurrent", cfg.Ingest.MaxConcurrent),
		zap.Int("sample_size", cfg.Analysis.SampleSize),
		zap.Float64("similarity_threshold", cfg.Analysis.SimilarityThreshold))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	inputs, readFailures := readInputs(fs.Args(), cfg.Ingest.MaxFileBytes, logger)

	ingestion := services.NewIngestionService(services.IngestionConfigFromConfig(cfg), logger)
	pipeline := services.NewPipelineService(ingestion, services.PipelineConfigFromConfig(cfg), logger)

	report, err := pipeline.Run(ctx, inputs, services.RunOptions{Merge: *merge})
	if err != nil {
		logger.Error("Analysis interrupted", zap.Error(err))
		return 1
	}
	report.Failures = append(readFailures, report.Failures...)

	if err := writeReport(stdout, report, *format); err != nil {
		logger.Error("Failed to write report", zap.Error(err))
		return 1
	}

	if len(report.Files) == 0 {
		logger.Error("No file could be parsed", zap.Int("failures", len(report.Failures)))
		return 1
	}
	return 0
}

// readInputs loads every path. Unreadable and oversized files become
// failures instead of inputs.
func readInputs(paths []string, maxBytes int64, logger *zap.Logger) ([]services.FileInput, []models.FileFailure) {
	var (
		inputs   []services.FileInput
		failures []models.FileFailure
	)
	for _, path := range paths {
		name := filepath.Base(path)

		info, err := os.Stat(path)
		if err == nil && maxBytes > 0 && info.Size() > maxBytes {
			err = apperrors.NewParseError(name,
				fmt.Errorf("%w: %d bytes exceeds limit of %d", apperrors.ErrFileTooLarge, info.Size(), maxBytes))
		}

		var content []byte
		if err == nil {
			content, err = os.ReadFile(path)
		}
		if err != nil {
			logger.Warn("Failed to read file",
				zap.String("file", logging.SanitizeFileName(path)),
				zap.String("error", logging.SanitizeError(err)))
			failures = append(failures, models.FileFailure{FileName: name, Error: err.Error()})
			continue
		}

		inputs = append(inputs, services.FileInput{Name: name, Content: content})
	}
	return inputs, failures
}

func writeReport(w io.Writer, report *models.AnalysisReport, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

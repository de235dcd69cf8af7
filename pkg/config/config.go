package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "config.yaml"

// Config holds all configuration for ekaya-tabular.
// Configuration can come from a YAML file or environment variables.
// Environment variables always override YAML values.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Quality  QualityConfig  `yaml:"quality"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console" validate:"oneof=console json"`
}

// IngestConfig bounds the work done per batch of inputs.
type IngestConfig struct {
	// MaxConcurrent is the number of files parsed at once.
	MaxConcurrent int `yaml:"max_concurrent" env:"INGEST_MAX_CONCURRENT" env-default:"8" validate:"gte=1,lte=256"`
	// MaxFileBytes rejects larger inputs before parsing. 0 disables the limit.
	MaxFileBytes int64 `yaml:"max_file_bytes" env:"INGEST_MAX_FILE_BYTES" env-default:"104857600" validate:"gte=0"`
}

// AnalysisConfig tunes metadata extraction and structure analysis.
type AnalysisConfig struct {
	SampleSize          int     `yaml:"sample_size" env:"ANALYSIS_SAMPLE_SIZE" env-default:"5" validate:"gte=0"`
	SimilarityThreshold float64 `yaml:"similarity_threshold" env:"ANALYSIS_SIMILARITY_THRESHOLD" env-default:"0.7" validate:"gte=0,lte=1"`
	KeyConfidence       float64 `yaml:"key_confidence" env:"ANALYSIS_KEY_CONFIDENCE" env-default:"0.8" validate:"gte=0,lte=1"`
	TemporalConfidence  float64 `yaml:"temporal_confidence" env:"ANALYSIS_TEMPORAL_CONFIDENCE" env-default:"0.9" validate:"gte=0,lte=1"`
	// DateRatio is the share of non-absent values that must look like dates
	// for a column to be typed as date.
	DateRatio float64 `yaml:"date_ratio" env:"ANALYSIS_DATE_RATIO" env-default:"0.8" validate:"gt=0,lte=1"`
}

// QualityConfig sets the thresholds that raise quality issues.
type QualityConfig struct {
	CompletenessThreshold float64 `yaml:"completeness_threshold" env:"QUALITY_COMPLETENESS_THRESHOLD" env-default:"0.8" validate:"gte=0,lte=1"`
	MinRows               int     `yaml:"min_rows" env:"QUALITY_MIN_ROWS" env-default:"10" validate:"gte=0"`
	// SkipContentScan turns off the injection and formula checks on text cells.
	SkipContentScan bool `yaml:"skip_content_scan" env:"QUALITY_SKIP_CONTENT_SCAN" env-default:"false"`
	// MaxContentFindings caps content scan issues per file. 0 means no cap.
	MaxContentFindings int `yaml:"max_content_findings" env:"QUALITY_MAX_CONTENT_FINDINGS" env-default:"20" validate:"gte=0"`
}

// Defaults returns the configuration used when no file or environment
// variables are present.
func Defaults() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Ingest: IngestConfig{
			MaxConcurrent: 8,
			MaxFileBytes:  100 << 20,
		},
		Analysis: AnalysisConfig{
			SampleSize:          5,
			SimilarityThreshold: 0.7,
			KeyConfidence:       0.8,
			TemporalConfidence:  0.9,
			DateRatio:           0.8,
		},
		Quality: QualityConfig{
			CompletenessThreshold: 0.8,
			MinRows:               10,
			MaxContentFindings:    20,
		},
	}
}

// Load reads configuration from the YAML file at path with environment
// variable overrides. A missing file is not an error: defaults and the
// environment are used instead. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every field against its range constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

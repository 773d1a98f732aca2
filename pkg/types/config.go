package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "ald-corpus/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RetryConfig holds the retry/backoff knobs for network fetches.
type RetryConfig struct {
	// MaxAttempts is the total number of fetch attempts, including the
	// first (default 6).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// BaseDelay is the initial backoff delay; it doubles after each
	// retryable failure (default 1s).
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay"`

	// MaxDelay caps the backoff delay (default 30s).
	MaxDelay time.Duration `json:"max_delay" yaml:"max_delay"`

	// JitterMax bounds the uniform random jitter added to every backoff
	// sleep (default 250ms).
	JitterMax time.Duration `json:"jitter_max" yaml:"jitter_max"`
}

// AcquisitionConfig holds settings for the acquisition stage.
type AcquisitionConfig struct {
	HTTPConfig  `yaml:",inline"`
	RetryConfig `yaml:",inline"`

	// DelayMin and DelayMax bound the uniform random politeness delay
	// applied before each outbound request (defaults 1s and 3s).
	DelayMin time.Duration `json:"delay_min" yaml:"delay_min"`
	DelayMax time.Duration `json:"delay_max" yaml:"delay_max"`

	// CorpusDir is the base directory for the corpus (contains pdfs/,
	// dataset/, catalog.db, mappings.csv, extraction.log).
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`

	// Workers is the number of concurrent acquisition workers (default 4).
	Workers int `json:"workers" yaml:"workers"`
}

// ExtractionConfig holds settings for the dataset extraction stage.
type ExtractionConfig struct {
	// PDFDir is the directory scanned for stored PDFs.
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir"`

	// DatasetDir is the directory that receives one subdirectory per
	// document (content.txt plus Images/).
	DatasetDir string `json:"dataset_dir" yaml:"dataset_dir"`

	// MinImageBytes is the byte threshold below which extracted images
	// are rejected without decoding (default 5000).
	MinImageBytes int `json:"min_image_bytes" yaml:"min_image_bytes"`

	// MinImageWidth and MinImageHeight are the pixel thresholds below
	// which decoded images are rejected (default 100 each).
	MinImageWidth  int `json:"min_image_width" yaml:"min_image_width"`
	MinImageHeight int `json:"min_image_height" yaml:"min_image_height"`

	// StripReferences removes the trailing references/bibliography
	// section from the normalized text (default false).
	StripReferences bool `json:"strip_references" yaml:"strip_references"`

	// Workers is the number of concurrent extraction workers (default 4).
	Workers int `json:"workers" yaml:"workers"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Acquisition AcquisitionConfig `json:"acquisition" yaml:"acquisition"`
	Extraction  ExtractionConfig  `json:"extraction" yaml:"extraction"`
}

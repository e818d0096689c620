// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DefaultStartPage skips the cover and contents pages of a report.
const DefaultStartPage = 2

// ExtractionConfig holds settings for the category extraction stage.
type ExtractionConfig struct {
	// StartPage is the zero-based index of the first page scanned (default 2).
	StartPage int `json:"start_page" yaml:"start_page" mapstructure:"start_page"`

	// StopWhenResolved ends a document scan once every category has a value.
	StopWhenResolved bool `json:"stop_when_resolved" yaml:"stop_when_resolved" mapstructure:"stop_when_resolved"`

	// NormalizeUnicode applies NFKC to page text before matching, turning
	// non-breaking spaces and font ligatures into plain characters.
	NormalizeUnicode bool `json:"normalize_unicode" yaml:"normalize_unicode" mapstructure:"normalize_unicode"`

	// Categories overrides the default category labels when non-empty.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty" mapstructure:"categories"`
}

// ConversionBackend identifies the PDF text extraction tool.
type ConversionBackend string

const (
	BackendPdfcpu    ConversionBackend = "pdfcpu"
	BackendPdftotext ConversionBackend = "pdftotext"
)

// ConversionConfig holds settings for reading page text out of reports.
type ConversionConfig struct {
	// Backend selects the text extraction tool: pdfcpu or pdftotext.
	Backend ConversionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// CacheTTL is how long page text stays cached in memory (default 10m).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// StoreConfig holds settings for the SQLite consumer of the long table.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "output/pioc.db").
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// ExportDir is where export.yaml and export.json are written (default "output").
	ExportDir string `json:"export_dir" yaml:"export_dir" mapstructure:"export_dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:",squash"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion" mapstructure:",squash"`
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
	Documents  []CorpusEntry    `json:"documents" yaml:"documents" mapstructure:"documents"`
}

// DefaultPipelineConfig returns the configuration used when no file is given.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Extraction: ExtractionConfig{
			StartPage:        DefaultStartPage,
			StopWhenResolved: true,
		},
		Conversion: ConversionConfig{
			Backend:  BackendPdfcpu,
			CacheTTL: 10 * time.Minute,
		},
		Store: StoreConfig{
			DBPath:    "output/pioc.db",
			ExportDir: "output",
		},
	}
}

// CategorySet returns the configured categories, or the defaults when none
// are configured.
func (c ExtractionConfig) CategorySet() (Categories, error) {
	if len(c.Categories) == 0 {
		return DefaultCategories(), nil
	}
	return NewCategories(c.Categories...)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CorpusEntry pairs a source report with the year it covers.
type CorpusEntry struct {
	// Path is the local filesystem path to the PDF report.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Year is the report year; unique within a corpus.
	Year int `json:"year" yaml:"year" mapstructure:"year"`
}

// LongRow is one (year, category) cell of the long table.
type LongRow struct {
	Year             int     `json:"year" yaml:"year"`
	Category         string  `json:"category" yaml:"category"`
	PercentageChange Percent `json:"percentage_change" yaml:"percentage_change"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus runs the category extractor over an ordered list of
// (report, year) entries and assembles the results into wide and long
// tables.
package corpus

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/pioc-engine/internal/extract"
	"github.com/pdiddy/pioc-engine/pkg/types"
)

var (
	// ErrNoEntries is returned when Compile is given no entries.
	ErrNoEntries = errors.New("no corpus entries")

	// ErrDuplicateYear is returned when two entries share a year.
	ErrDuplicateYear = errors.New("duplicate year")

	// ErrBlankPath is returned when an entry has no document path.
	ErrBlankPath = errors.New("blank document path")

	// ErrInvalidYear is returned for a zero or negative year.
	ErrInvalidYear = errors.New("year must be positive")
)

// Warning records a document that could not be read. Its categories are
// all missing in the corpus.
type Warning struct {
	Year int
	Path string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%d %s: %v", w.Year, w.Path, w.Err)
}

// Compiler applies one Extractor and category list to every entry.
type Compiler struct {
	source     extract.PageSource
	extractor  *extract.Extractor
	categories types.Categories
	log        zerolog.Logger
	out        io.Writer
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the structured logger for per-document events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Compiler) { c.log = l }
}

// WithOutput sets where per-document status lines and the summary are
// printed.
func WithOutput(w io.Writer) Option {
	return func(c *Compiler) { c.out = w }
}

// NewCompiler validates the category list and returns a Compiler. Logging
// and status output are discarded unless options set them.
func NewCompiler(src extract.PageSource, ex *extract.Extractor, categories types.Categories, opts ...Option) (*Compiler, error) {
	if src == nil {
		return nil, errors.New("page source is required")
	}
	if ex == nil {
		return nil, errors.New("extractor is required")
	}
	if err := categories.Validate(); err != nil {
		return nil, fmt.Errorf("invalid categories: %w", err)
	}

	c := &Compiler{
		source:     src,
		extractor:  ex,
		categories: categories,
		log:        zerolog.Nop(),
		out:        io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ValidateEntries checks the entry list before any document is read: it
// must be non-empty with non-blank paths and unique positive years.
func ValidateEntries(entries []types.CorpusEntry) error {
	if len(entries) == 0 {
		return ErrNoEntries
	}
	years := make(map[int]bool, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Path) == "" {
			return fmt.Errorf("entry %d: %w", i, ErrBlankPath)
		}
		if e.Year <= 0 {
			return fmt.Errorf("entry %d (%s): %w", i, e.Path, ErrInvalidYear)
		}
		if years[e.Year] {
			return fmt.Errorf("%w: %d", ErrDuplicateYear, e.Year)
		}
		years[e.Year] = true
	}
	return nil
}

// Compile extracts every entry in input order. An unreadable document is
// logged as a warning and contributes an all-missing result; only an
// invalid entry list fails the compile, and it does so before any document
// is read.
func (c *Compiler) Compile(entries []types.CorpusEntry) (*Corpus, error) {
	if err := ValidateEntries(entries); err != nil {
		return nil, err
	}

	corpus := &Corpus{
		categories: c.categories,
		results:    make([]types.ExtractionResult, 0, len(entries)),
	}

	for _, e := range entries {
		result, err := c.extractor.ExtractDocument(c.source, e.Path, c.categories)
		result.Year = e.Year

		if err != nil {
			c.log.Warn().Err(err).Str("path", e.Path).Int("year", e.Year).
				Msg("document unreadable; all categories missing")
			fmt.Fprintf(c.out, "failed:    %d %s (%v)\n", e.Year, e.Path, err)
			corpus.warnings = append(corpus.warnings, Warning{Year: e.Year, Path: e.Path, Err: err})
		} else {
			c.log.Debug().Str("path", e.Path).Int("year", e.Year).
				Int("resolved", result.Resolved()).Int("categories", c.categories.Len()).
				Msg("document extracted")
			fmt.Fprintf(c.out, "extracted: %d %s (%d/%d categories)\n",
				e.Year, e.Path, result.Resolved(), c.categories.Len())
		}

		corpus.results = append(corpus.results, result)
	}

	resolved := 0
	for _, r := range corpus.results {
		resolved += r.Resolved()
	}
	fmt.Fprintf(c.out, "\nCompile summary: %d documents, %d unreadable, %d of %d values resolved\n",
		len(entries), len(corpus.warnings), resolved, len(entries)*c.categories.Len())

	return corpus, nil
}

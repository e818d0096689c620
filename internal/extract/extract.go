// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract resolves a percentage-change figure for each cost
// category from the page text of one report.
//
// For every unresolved category the extractor looks, page by page, for the
// first case-insensitive literal occurrence of the label followed anywhere
// later on the same page by a percent token (\d{1,3}(\.\d+)?%). The first
// page that yields a match locks the category. Because the percent is the
// nearest following one, a label in dense prose can bind to an unrelated
// figure that appears before the intended one; every value therefore
// carries its matched span for auditing.
package extract

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/pdiddy/pioc-engine/pkg/types"
)

// ErrNegativeStartPage is returned by New when Options.StartPage < 0.
var ErrNegativeStartPage = errors.New("start page must not be negative")

// PageSource returns the plain text of every page of a document.
// convert.Converter satisfies it.
type PageSource interface {
	Pages(path string) ([]string, error)
}

// DocumentUnreadableError reports a document whose text could not be read.
// It is a warning: the accompanying result has every category missing.
type DocumentUnreadableError struct {
	Path string
	Err  error
}

func (e *DocumentUnreadableError) Error() string {
	return fmt.Sprintf("document %s unreadable: %v", e.Path, e.Err)
}

func (e *DocumentUnreadableError) Unwrap() error { return e.Err }

// Options control a document scan.
type Options struct {
	// StartPage is the zero-based index of the first page scanned.
	StartPage int

	// StopWhenResolved ends the scan once every category has a value.
	StopWhenResolved bool

	// NormalizeUnicode applies NFKC before line breaks are collapsed.
	NormalizeUnicode bool
}

// DefaultOptions skips the cover and contents pages and stops early.
func DefaultOptions() Options {
	return Options{StartPage: types.DefaultStartPage, StopWhenResolved: true}
}

// OptionsFromConfig maps the extraction stage configuration onto Options.
func OptionsFromConfig(cfg types.ExtractionConfig) Options {
	return Options{
		StartPage:        cfg.StartPage,
		StopWhenResolved: cfg.StopWhenResolved,
		NormalizeUnicode: cfg.NormalizeUnicode,
	}
}

// Extractor applies Options to documents. It holds no per-document state,
// so one Extractor can be reused across a corpus.
type Extractor struct {
	opts Options
}

// New validates opts and returns an Extractor.
func New(opts Options) (*Extractor, error) {
	if opts.StartPage < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeStartPage, opts.StartPage)
	}
	return &Extractor{opts: opts}, nil
}

// Options returns the extractor's options.
func (e *Extractor) Options() Options { return e.opts }

// Extract scans pages from StartPage onward and returns one slot per
// category. Categories never matched stay missing.
func (e *Extractor) Extract(pages []string, categories types.Categories) types.ExtractionResult {
	result := types.NewExtractionResult(categories)
	matchers := compileMatchers(categories)

	resolved := make([]bool, len(matchers))
	remaining := len(matchers)

	for p := e.opts.StartPage; p < len(pages); p++ {
		if e.opts.StopWhenResolved && remaining == 0 {
			break
		}
		text := Normalize(pages[p], e.opts.NormalizeUnicode)
		if text == "" {
			continue
		}

		for i, m := range matchers {
			if resolved[i] {
				continue
			}
			match, value, ok := m.find(text)
			if !ok {
				continue
			}
			match.Page = p
			result.Values[i].Value = value
			result.Values[i].Match = &match
			resolved[i] = true
			remaining--
		}
	}

	return result
}

// ExtractDocument reads path through src and extracts it. When the document
// cannot be read it returns an all-missing result together with a
// *DocumentUnreadableError; callers should report it and carry on.
func (e *Extractor) ExtractDocument(src PageSource, path string, categories types.Categories) (types.ExtractionResult, error) {
	pages, err := src.Pages(path)
	if err != nil {
		result := types.NewExtractionResult(categories)
		result.Source = path
		return result, &DocumentUnreadableError{Path: path, Err: err}
	}

	result := e.Extract(pages, categories)
	result.Source = path
	return result, nil
}

// matcher finds one category label followed by a percent token.
type matcher struct {
	re *regexp.Regexp
}

func compileMatchers(categories types.Categories) []matcher {
	matchers := make([]matcher, categories.Len())
	for i := range matchers {
		matchers[i] = matcher{re: regexp.MustCompile(
			`(?i)` + regexp.QuoteMeta(categories.Label(i)) + `.*?` + percentPattern,
		)}
	}
	return matchers
}

// find returns the span from the first label occurrence through the first
// percent token after it. A token that does not parse leaves the category
// unresolved.
func (m matcher) find(text string) (types.Match, types.Percent, bool) {
	loc := m.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return types.Match{}, types.Percent{}, false
	}
	token := text[loc[2]:loc[1]]
	value, ok := ParsePercent(token)
	if !ok {
		return types.Match{}, types.Percent{}, false
	}
	return types.Match{
		Start: loc[0],
		End:   loc[1],
		Text:  text[loc[0]:loc[1]],
		Token: token,
	}, value, true
}

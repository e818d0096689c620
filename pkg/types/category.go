// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pioc-engine pipeline:
// the fixed category list, per-document extraction results, corpus entries
// and stage configuration.
package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoCategories is returned when a category list is empty.
	ErrNoCategories = errors.New("category list is empty")

	// ErrBlankCategory is returned when a category label is empty or whitespace.
	ErrBlankCategory = errors.New("category label is blank")

	// ErrDuplicateCategory is returned when two labels are equal ignoring case.
	ErrDuplicateCategory = errors.New("duplicate category label")
)

// defaultLabels are the eleven cost dimensions tracked across PIOC reports,
// in report order.
var defaultLabels = []string{
	"Real estate taxes",
	"Labor costs",
	"Fuel",
	"Natural gas",
	"Utilities",
	"Contractor services",
	"Administrative costs",
	"Insurance costs",
	"Parts and supplies",
	"Replacement costs",
	"Costs in Pre-1974 buildings",
}

// Categories is an immutable ordered list of category labels. Construct it
// with NewCategories or DefaultCategories; the zero value is empty and fails
// Validate.
type Categories struct {
	labels []string
}

// NewCategories copies labels into a Categories value and validates it.
func NewCategories(labels ...string) (Categories, error) {
	c := Categories{labels: append([]string(nil), labels...)}
	if err := c.Validate(); err != nil {
		return Categories{}, err
	}
	return c, nil
}

// DefaultCategories returns the eleven PIOC cost categories.
func DefaultCategories() Categories {
	return Categories{labels: append([]string(nil), defaultLabels...)}
}

// DefaultLabels returns a copy of the default category labels.
func DefaultLabels() []string {
	return append([]string(nil), defaultLabels...)
}

// Len returns the number of categories.
func (c Categories) Len() int { return len(c.labels) }

// Label returns the i-th label.
func (c Categories) Label(i int) string { return c.labels[i] }

// Labels returns a copy of the labels in order.
func (c Categories) Labels() []string {
	return append([]string(nil), c.labels...)
}

// Index returns the position of label (exact match), or -1.
func (c Categories) Index(label string) int {
	for i, l := range c.labels {
		if l == label {
			return i
		}
	}
	return -1
}

// Validate checks that the list is non-empty, has no blank labels and no
// labels that are equal ignoring case.
func (c Categories) Validate() error {
	if len(c.labels) == 0 {
		return ErrNoCategories
	}
	seen := make(map[string]bool, len(c.labels))
	for i, l := range c.labels {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("category %d: %w", i, ErrBlankCategory)
		}
		key := strings.ToLower(l)
		if seen[key] {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, l)
		}
		seen[key] = true
	}
	return nil
}

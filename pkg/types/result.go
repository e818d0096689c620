// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"strconv"

	"go.yaml.in/yaml/v3"
)

// Percent is a percentage magnitude (3.9 means 3.9%) that may be missing.
// The zero value is missing, which keeps it distinguishable from a real 0%.
type Percent struct {
	Value float64
	Valid bool
}

// Missing returns the missing marker.
func Missing() Percent { return Percent{} }

// PercentOf returns a present value.
func PercentOf(v float64) Percent { return Percent{Value: v, Valid: true} }

// String renders the value as "3.9%" or "missing".
func (p Percent) String() string {
	if !p.Valid {
		return "missing"
	}
	return strconv.FormatFloat(p.Value, 'f', -1, 64) + "%"
}

// MarshalJSON encodes a missing value as null.
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// UnmarshalJSON decodes null as missing.
func (p *Percent) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Percent{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = PercentOf(v)
	return nil
}

// MarshalYAML encodes a missing value as null.
func (p Percent) MarshalYAML() (interface{}, error) {
	if !p.Valid {
		return nil, nil
	}
	return p.Value, nil
}

// UnmarshalYAML decodes null (or an empty node) as missing.
func (p *Percent) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" || node.Value == "" {
		*p = Percent{}
		return nil
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return err
	}
	*p = PercentOf(v)
	return nil
}

// Match records where a value was found, for auditing nearest-match
// bindings. Offsets index the normalised page text.
type Match struct {
	// Page is the zero-based page index.
	Page int `json:"page" yaml:"page"`

	// Start and End are byte offsets of Text within the normalised page.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`

	// Text spans from the label occurrence through the percent token.
	Text string `json:"text" yaml:"text"`

	// Token is the raw percent token, e.g. "3.9%".
	Token string `json:"token" yaml:"token"`
}

// CategoryValue is one slot of an ExtractionResult.
type CategoryValue struct {
	Category string  `json:"category" yaml:"category"`
	Value    Percent `json:"value" yaml:"value"`

	// Match is nil when Value is missing.
	Match *Match `json:"match,omitempty" yaml:"match,omitempty"`
}

// ExtractionResult holds one slot per category for a single document, in
// category order.
type ExtractionResult struct {
	Year   int             `json:"year" yaml:"year"`
	Source string          `json:"source" yaml:"source"`
	Values []CategoryValue `json:"values" yaml:"values"`
}

// NewExtractionResult returns a result with every category missing.
func NewExtractionResult(categories Categories) ExtractionResult {
	values := make([]CategoryValue, categories.Len())
	for i := range values {
		values[i] = CategoryValue{Category: categories.Label(i)}
	}
	return ExtractionResult{Values: values}
}

// Get returns the value for label and whether the label has a slot.
func (r ExtractionResult) Get(label string) (Percent, bool) {
	for _, v := range r.Values {
		if v.Category == label {
			return v.Value, true
		}
	}
	return Percent{}, false
}

// Resolved returns the number of categories with a value.
func (r ExtractionResult) Resolved() int {
	n := 0
	for _, v := range r.Values {
		if v.Value.Valid {
			n++
		}
	}
	return n
}

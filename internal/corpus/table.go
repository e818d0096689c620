// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import "github.com/pdiddy/pioc-engine/pkg/types"

// YearColumn is the name of the key column of the wide table.
const YearColumn = "Year"

// Corpus is the ordered, immutable output of Compile.
type Corpus struct {
	categories types.Categories
	results    []types.ExtractionResult
	warnings   []Warning
}

// Categories returns the category list the corpus was compiled with.
func (c *Corpus) Categories() types.Categories { return c.categories }

// Results returns the extraction results in input order.
func (c *Corpus) Results() []types.ExtractionResult {
	return append([]types.ExtractionResult(nil), c.results...)
}

// Warnings returns the unreadable documents in input order.
func (c *Corpus) Warnings() []Warning {
	return append([]Warning(nil), c.warnings...)
}

// Years returns the report years in input order.
func (c *Corpus) Years() []int {
	years := make([]int, len(c.results))
	for i, r := range c.results {
		years[i] = r.Year
	}
	return years
}

// WideRow is one year of the wide table; Values follow the category order.
type WideRow struct {
	Year   int
	Values []types.Percent
}

// WideTable has one row per year and one column per category.
type WideTable struct {
	Categories []string
	Rows       []WideRow
}

// Columns returns the header: Year followed by the category labels.
func (t WideTable) Columns() []string {
	return append([]string{YearColumn}, t.Categories...)
}

// Value returns the cell for (year, category) and whether it exists.
func (t WideTable) Value(year int, category string) (types.Percent, bool) {
	col := -1
	for i, c := range t.Categories {
		if c == category {
			col = i
			break
		}
	}
	if col < 0 {
		return types.Percent{}, false
	}
	for _, r := range t.Rows {
		if r.Year == year {
			return r.Values[col], true
		}
	}
	return types.Percent{}, false
}

// Wide returns the corpus as one row per year in input order.
func (c *Corpus) Wide() WideTable {
	t := WideTable{
		Categories: c.categories.Labels(),
		Rows:       make([]WideRow, len(c.results)),
	}
	for i, r := range c.results {
		values := make([]types.Percent, len(r.Values))
		for j, v := range r.Values {
			values[j] = v.Value
		}
		t.Rows[i] = WideRow{Year: r.Year, Values: values}
	}
	return t
}

// Long returns the melted wide table.
func (c *Corpus) Long() []types.LongRow {
	return Melt(c.Wide())
}

// Melt reshapes a wide table into (Year, Category, PercentageChange) rows,
// category-major: every year of the first category, then the next. The
// result has exactly len(Rows) x len(Categories) rows.
func Melt(t WideTable) []types.LongRow {
	rows := make([]types.LongRow, 0, len(t.Rows)*len(t.Categories))
	for col, category := range t.Categories {
		for _, r := range t.Rows {
			rows = append(rows, types.LongRow{
				Year:             r.Year,
				Category:         category,
				PercentageChange: r.Values[col],
			})
		}
	}
	return rows
}

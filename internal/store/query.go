// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/pioc-engine/pkg/types"
)

// QueryOptions filters stored rows. Zero values match everything.
type QueryOptions struct {
	Year     int
	Category string
}

// Row is a stored long-table row with its provenance.
type Row struct {
	types.LongRow `yaml:",inline"`
	Source    string `json:"source" yaml:"source"`
	Page      *int   `json:"page,omitempty" yaml:"page,omitempty"`
	MatchText string `json:"match_text,omitempty" yaml:"match_text,omitempty"`
}

// Document is one stored report.
type Document struct {
	Year     int    `json:"year" yaml:"year"`
	Source   string `json:"source" yaml:"source"`
	Resolved int    `json:"resolved" yaml:"resolved"`
	Warning  string `json:"warning,omitempty" yaml:"warning,omitempty"`
	StoredAt string `json:"stored_at" yaml:"stored_at"`
}

// Query returns stored rows in long-table order: category position, then
// year. Category matching ignores case.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]Row, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT c.year, c.category, c.percentage_change, d.source, c.page, c.match_text
		FROM changes c
		JOIN documents d ON d.year = c.year
		WHERE 1=1`)
	if opts.Year != 0 {
		qb.WriteString(` AND c.year = ?`)
		args = append(args, opts.Year)
	}
	if opts.Category != "" {
		qb.WriteString(` AND c.category = ? COLLATE NOCASE`)
		args = append(args, opts.Category)
	}
	qb.WriteString(` ORDER BY c.position, c.year`)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying changes: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			r     Row
			value sql.NullFloat64
			page  sql.NullInt64
			text  sql.NullString
		)
		if err := rows.Scan(&r.Year, &r.Category, &value, &r.Source, &page, &text); err != nil {
			return nil, fmt.Errorf("scanning change: %w", err)
		}
		if value.Valid {
			r.PercentageChange = types.PercentOf(value.Float64)
		}
		if page.Valid {
			p := int(page.Int64)
			r.Page = &p
		}
		r.MatchText = text.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// Documents returns the stored reports ordered by year.
func (s *Store) Documents(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT year, source, resolved, warning, stored_at FROM documents ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var (
			d       Document
			warning sql.NullString
		)
		if err := rows.Scan(&d.Year, &d.Source, &d.Resolved, &warning, &d.StoredAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		d.Warning = warning.String
		out = append(out, d)
	}
	return out, rows.Err()
}

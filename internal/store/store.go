// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists compiled corpora to SQLite and exports the long
// (year, category, percentage change) table.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pioc-engine/internal/corpus"
	"github.com/pdiddy/pioc-engine/pkg/types"
)

const defaultDBPath = "output/pioc.db"

// Store manages the PIOC SQLite database.
type Store struct {
	db        *sql.DB
	exportDir string
}

// NewStore opens or creates the database at cfg.DBPath and creates the
// schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	exportDir := cfg.ExportDir
	if exportDir == "" {
		exportDir = filepath.Dir(dbPath)
	}

	s := &Store{db: db, exportDir: exportDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			year INTEGER PRIMARY KEY,
			source TEXT NOT NULL,
			resolved INTEGER NOT NULL,
			warning TEXT,
			stored_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS changes (
			year INTEGER NOT NULL REFERENCES documents(year) ON DELETE CASCADE,
			category TEXT NOT NULL,
			position INTEGER NOT NULL,
			percentage_change REAL,
			page INTEGER,
			match_text TEXT,
			PRIMARY KEY (year, category)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_changes_category ON changes(category)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveSummary holds counts from a Save run.
type SaveSummary struct {
	Inserted int
	Replaced int
}

// Total returns the number of documents written.
func (s SaveSummary) Total() int {
	return s.Inserted + s.Replaced
}

// Save writes every result of c in one transaction. A year already in the
// database is replaced wholesale, so re-running a report never leaves rows
// from the previous run behind.
func (s *Store) Save(ctx context.Context, c *corpus.Corpus, w io.Writer) (SaveSummary, error) {
	warnings := make(map[int]string)
	for _, wr := range c.Warnings() {
		warnings[wr.Year] = wr.Err.Error()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SaveSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO changes (year, category, position, percentage_change, page, match_text)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return SaveSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var summary SaveSummary
	storedAt := time.Now().UTC().Format(time.RFC3339)

	for _, r := range c.Results() {
		res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE year = ?`, r.Year)
		if err != nil {
			return SaveSummary{}, fmt.Errorf("deleting year %d: %w", r.Year, err)
		}
		replaced, _ := res.RowsAffected()

		var warning sql.NullString
		if msg, ok := warnings[r.Year]; ok {
			warning = sql.NullString{String: msg, Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (year, source, resolved, warning, stored_at) VALUES (?, ?, ?, ?, ?)`,
			r.Year, r.Source, r.Resolved(), warning, storedAt,
		); err != nil {
			return SaveSummary{}, fmt.Errorf("inserting document %d: %w", r.Year, err)
		}

		for pos, v := range r.Values {
			var (
				value sql.NullFloat64
				page  sql.NullInt64
				text  sql.NullString
			)
			if v.Value.Valid {
				value = sql.NullFloat64{Float64: v.Value.Value, Valid: true}
			}
			if v.Match != nil {
				page = sql.NullInt64{Int64: int64(v.Match.Page), Valid: true}
				text = sql.NullString{String: v.Match.Text, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, r.Year, v.Category, pos, value, page, text); err != nil {
				return SaveSummary{}, fmt.Errorf("inserting %d %q: %w", r.Year, v.Category, err)
			}
		}

		if replaced > 0 {
			fmt.Fprintf(w, "replaced %d (%d/%d values)\n", r.Year, r.Resolved(), len(r.Values))
			summary.Replaced++
		} else {
			fmt.Fprintf(w, "stored   %d (%d/%d values)\n", r.Year, r.Resolved(), len(r.Values))
			summary.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return SaveSummary{}, fmt.Errorf("committing: %w", err)
	}
	return summary, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pioc-engine/internal/corpus"
	"github.com/pdiddy/pioc-engine/internal/extract"
	"github.com/pdiddy/pioc-engine/pkg/types"
)

func testSetup(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(types.StoreConfig{
		DBPath:    filepath.Join(dir, "db", "pioc.db"),
		ExportDir: filepath.Join(dir, "export"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

type mapSource map[string][]string

func (m mapSource) Pages(path string) ([]string, error) {
	pages, ok := m[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return pages, nil
}

var cover = []string{"Price Index of Operating Costs", "Contents"}

func compile(t *testing.T, src mapSource, entries ...types.CorpusEntry) *corpus.Corpus {
	t.Helper()
	ex, err := extract.New(extract.DefaultOptions())
	require.NoError(t, err)
	categories, err := types.NewCategories("Fuel", "Insurance costs")
	require.NoError(t, err)
	c, err := corpus.NewCompiler(src, ex, categories)
	require.NoError(t, err)
	out, err := c.Compile(entries)
	require.NoError(t, err)
	return out
}

func testCorpus(t *testing.T) *corpus.Corpus {
	src := mapSource{
		"2024.pdf": append(append([]string(nil), cover...), "Fuel fell 7.1%. Insurance costs surged 21.7%."),
		"2023.pdf": append(append([]string(nil), cover...), "Fuel rose 31.4%."),
	}
	return compile(t, src,
		types.CorpusEntry{Path: "2024.pdf", Year: 2024},
		types.CorpusEntry{Path: "2023.pdf", Year: 2023},
		types.CorpusEntry{Path: "2019.pdf", Year: 2019},
	)
}

func TestNewStore_CreatesSchema(t *testing.T) {
	s := testSetup(t)

	for _, table := range []string{"documents", "changes"} {
		var name string
		err := s.db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}

	var idx string
	err := s.db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='index' AND name='idx_changes_category'`,
	).Scan(&idx)
	require.NoError(t, err)
}

func TestNewStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pioc.db")
	s, err := NewStore(types.StoreConfig{DBPath: dbPath})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStore(types.StoreConfig{DBPath: dbPath})
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, filepath.Dir(dbPath), s.exportDir)
}

func TestSave(t *testing.T) {
	s := testSetup(t)
	ctx := context.Background()
	var out bytes.Buffer

	summary, err := s.Save(ctx, testCorpus(t), &out)
	require.NoError(t, err)
	assert.Equal(t, SaveSummary{Inserted: 3}, summary)
	assert.Contains(t, out.String(), "stored   2024 (2/2 values)")
	assert.Contains(t, out.String(), "stored   2019 (0/2 values)")

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM changes`).Scan(&n))
	assert.Equal(t, 6, n)

	var nulls int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM changes WHERE percentage_change IS NULL`).Scan(&nulls))
	assert.Equal(t, 3, nulls)
}

func TestSave_ReplacesYear(t *testing.T) {
	s := testSetup(t)
	ctx := context.Background()

	_, err := s.Save(ctx, testCorpus(t), &bytes.Buffer{})
	require.NoError(t, err)

	revised := compile(t, mapSource{
		"2024-revised.pdf": append(append([]string(nil), cover...), "Fuel fell 6.9%."),
	}, types.CorpusEntry{Path: "2024-revised.pdf", Year: 2024})

	var out bytes.Buffer
	summary, err := s.Save(ctx, revised, &out)
	require.NoError(t, err)
	assert.Equal(t, SaveSummary{Replaced: 1}, summary)
	assert.Equal(t, 1, summary.Total())
	assert.Contains(t, out.String(), "replaced 2024")

	rows, err := s.Query(ctx, QueryOptions{Year: 2024})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, types.PercentOf(6.9), rows[0].PercentageChange)
	assert.Equal(t, "2024-revised.pdf", rows[0].Source)
	assert.Equal(t, types.Missing(), rows[1].PercentageChange)
}

func TestQuery(t *testing.T) {
	s := testSetup(t)
	ctx := context.Background()
	_, err := s.Save(ctx, testCorpus(t), &bytes.Buffer{})
	require.NoError(t, err)

	t.Run("all rows in long-table order", func(t *testing.T) {
		rows, err := s.Query(ctx, QueryOptions{})
		require.NoError(t, err)
		require.Len(t, rows, 6)
		assert.Equal(t, "Fuel", rows[0].Category)
		assert.Equal(t, 2019, rows[0].Year)
		assert.Equal(t, "Insurance costs", rows[5].Category)
		assert.Equal(t, 2024, rows[5].Year)
	})

	t.Run("category filter ignores case", func(t *testing.T) {
		rows, err := s.Query(ctx, QueryOptions{Category: "fuel"})
		require.NoError(t, err)
		require.Len(t, rows, 3)
		for _, r := range rows {
			assert.Equal(t, "Fuel", r.Category)
		}
	})

	t.Run("provenance", func(t *testing.T) {
		rows, err := s.Query(ctx, QueryOptions{Year: 2024, Category: "Fuel"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, types.PercentOf(7.1), rows[0].PercentageChange)
		require.NotNil(t, rows[0].Page)
		assert.Equal(t, 2, *rows[0].Page)
		assert.Contains(t, rows[0].MatchText, "7.1%")
	})

	t.Run("no match", func(t *testing.T) {
		rows, err := s.Query(ctx, QueryOptions{Year: 1999})
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestDocuments(t *testing.T) {
	s := testSetup(t)
	ctx := context.Background()
	_, err := s.Save(ctx, testCorpus(t), &bytes.Buffer{})
	require.NoError(t, err)

	docs, err := s.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, 2019, docs[0].Year)
	assert.Contains(t, docs[0].Warning, "unreadable")
	assert.Equal(t, 0, docs[0].Resolved)
	assert.Equal(t, 2024, docs[2].Year)
	assert.Equal(t, 2, docs[2].Resolved)
	assert.Empty(t, docs[2].Warning)
	assert.NotEmpty(t, docs[2].StoredAt)
}

func TestExport(t *testing.T) {
	s := testSetup(t)
	ctx := context.Background()
	_, err := s.Save(ctx, testCorpus(t), &bytes.Buffer{})
	require.NoError(t, err)

	t.Run("json", func(t *testing.T) {
		path, err := s.ExportJSON(ctx, QueryOptions{})
		require.NoError(t, err)
		assert.Equal(t, "export.json", filepath.Base(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var rows []map[string]any
		require.NoError(t, json.Unmarshal(data, &rows))
		require.Len(t, rows, 6)
		assert.Equal(t, "Fuel", rows[0]["category"])
		assert.Nil(t, rows[0]["percentage_change"], "2019 is missing")
	})

	t.Run("yaml", func(t *testing.T) {
		path, err := s.ExportYAML(ctx, QueryOptions{Year: 2024})
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var rows []struct {
			Year             int           `yaml:"year"`
			Category         string        `yaml:"category"`
			PercentageChange types.Percent `yaml:"percentage_change"`
		}
		require.NoError(t, yaml.Unmarshal(data, &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, types.PercentOf(21.7), rows[1].PercentageChange)
	})
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pioc-engine/internal/convert"
	"github.com/pdiddy/pioc-engine/internal/corpus"
	"github.com/pdiddy/pioc-engine/internal/extract"
	"github.com/pdiddy/pioc-engine/internal/store"
	"github.com/pdiddy/pioc-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [path:year...]",
	Short: "Compile the long table from a series of PIOC reports",
	Long: `Extract reads each report, scans its pages from the configured start
page, and records the first percentage that follows each category label.
Reports come from path:year arguments, from --manifest, or from the
documents list in the config file, in that order of precedence.

An unreadable report is logged as a warning and contributes a row of
missing values; only an invalid document list stops the run.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadPipelineConfig(viper.GetViper())
	if err != nil {
		return err
	}
	entries, err := entriesFromFlags(cmd, args, cfg.Documents)
	if err != nil {
		return err
	}

	categories, err := cfg.Extraction.CategorySet()
	if err != nil {
		return fmt.Errorf("configuring categories: %w", err)
	}
	ex, err := extract.New(extract.OptionsFromConfig(cfg.Extraction))
	if err != nil {
		return err
	}
	conv, err := convert.New(cfg.Conversion)
	if err != nil {
		return err
	}
	compiler, err := corpus.NewCompiler(conv, ex, categories,
		corpus.WithLogger(logger),
		corpus.WithOutput(os.Stderr),
	)
	if err != nil {
		return err
	}

	logger.Debug().
		Int("documents", len(entries)).
		Int("categories", categories.Len()).
		Str("backend", string(cfg.Conversion.Backend)).
		Int("start_page", ex.Options().StartPage).
		Msg("compiling corpus")

	result, err := compiler.Compile(entries)
	if err != nil {
		return err
	}

	if verify, _ := cmd.Flags().GetBool("verify"); verify {
		if err := verifyCompile(compiler, entries, result); err != nil {
			return err
		}
	}

	if persist, _ := cmd.Flags().GetBool("store"); persist {
		if err := storeCorpus(cmd.Context(), cfg.Store, result); err != nil {
			return err
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	audit, _ := cmd.Flags().GetBool("audit")
	switch {
	case jsonOutput:
		return writeJSON(os.Stdout, result.Long())
	case audit:
		writeAudit(os.Stdout, result)
	default:
		writeLongTable(os.Stdout, result.Long())
	}
	return nil
}

// entriesFromFlags picks the document list: arguments first, then the
// manifest flag, then the config file.
func entriesFromFlags(cmd *cobra.Command, args []string, configured []types.CorpusEntry) ([]types.CorpusEntry, error) {
	if len(args) > 0 {
		entries := make([]types.CorpusEntry, 0, len(args))
		for _, a := range args {
			e, err := parseEntryArg(a)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
		return entries, nil
	}
	if manifest, _ := cmd.Flags().GetString("manifest"); manifest != "" {
		return readManifest(manifest)
	}
	return configured, nil
}

// verifyCompile runs the compile a second time and fails if any value
// differs from the first run.
func verifyCompile(c *corpus.Compiler, entries []types.CorpusEntry, first *corpus.Corpus) error {
	second, err := c.Compile(entries)
	if err != nil {
		return fmt.Errorf("verification compile: %w", err)
	}
	if !reflect.DeepEqual(first.Long(), second.Long()) {
		return fmt.Errorf("verification failed: repeated compile produced different values")
	}
	logger.Info().Int("rows", len(first.Long())).Msg("verified: repeated compile is identical")
	return nil
}

func storeCorpus(ctx context.Context, cfg types.StoreConfig, c *corpus.Corpus) error {
	s, err := store.NewStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Save(ctx, c, os.Stderr)
	if err != nil {
		return err
	}
	logger.Info().
		Int("inserted", summary.Inserted).
		Int("replaced", summary.Replaced).
		Str("db", cfg.DBPath).
		Msg("stored corpus")
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeLongTable(w io.Writer, rows []types.LongRow) {
	fmt.Fprintf(w, "%-6s  %-28s  %s\n", "Year", "Category", "Percentage change")
	fmt.Fprintln(w, strings.Repeat("-", 56))
	for _, r := range rows {
		fmt.Fprintf(w, "%-6d  %-28s  %s\n", r.Year, r.Category, r.PercentageChange)
	}
	fmt.Fprintf(w, "\n%d rows\n", len(rows))
}

// writeAudit prints where each resolved value was found.
func writeAudit(w io.Writer, c *corpus.Corpus) {
	for _, r := range c.Results() {
		fmt.Fprintf(w, "%d  %s\n", r.Year, r.Source)
		for _, v := range r.Values {
			if v.Match == nil {
				fmt.Fprintf(w, "  %-28s  missing\n", v.Category)
				continue
			}
			text := v.Match.Text
			if len(text) > 60 {
				text = text[:57] + "..."
			}
			fmt.Fprintf(w, "  %-28s  %-7s  page %-3d  %q\n", v.Category, v.Value, v.Match.Page, text)
		}
	}
}

func init() {
	extractCmd.Flags().String("manifest", "", "YAML file listing documents as {path, year} entries")
	extractCmd.Flags().Int("start-page", types.DefaultStartPage, "zero-based index of the first page scanned")
	extractCmd.Flags().String("backend", "", "text extraction backend: pdfcpu or pdftotext")
	extractCmd.Flags().Bool("json", false, "print the long table as JSON")
	extractCmd.Flags().Bool("audit", false, "print the page and matched text behind each value")
	extractCmd.Flags().Bool("verify", false, "compile twice and fail if the results differ")
	extractCmd.Flags().Bool("store", false, "save the compiled corpus to the SQLite store")

	viper.BindPFlag("start_page", extractCmd.Flags().Lookup("start-page"))
	viper.BindPFlag("backend", extractCmd.Flags().Lookup("backend"))

	rootCmd.AddCommand(extractCmd)
}

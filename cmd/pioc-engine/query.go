// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pioc-engine/internal/store"
)

// --- query ---

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "List stored rows of the long table",
	Long: `Query reads the SQLite store written by extract --store and lists
(year, category, percentage change) rows, optionally filtered by year or
category. Use --documents to list the stored reports and their warnings.`,
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")

	if docs, _ := cmd.Flags().GetBool("documents"); docs {
		documents, err := s.Documents(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(os.Stdout, documents)
		}
		return formatDocuments(documents)
	}

	rows, err := s.Query(cmd.Context(), queryOptsFromFlags(cmd))
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(os.Stdout, rows)
	}
	return formatRows(rows)
}

func formatRows(rows []store.Row) error {
	if len(rows) == 0 {
		fmt.Println("No rows found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-28s  %-8s  %-4s  %s\n", "Year", "Category", "Change", "Page", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, r := range rows {
		page := "-"
		if r.Page != nil {
			page = fmt.Sprint(*r.Page)
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-28s  %-8s  %-4s  %s\n",
			r.Year, r.Category, r.PercentageChange, page, r.Source)
	}
	fmt.Fprintf(os.Stdout, "\n%d rows\n", len(rows))
	return nil
}

func formatDocuments(docs []store.Document) error {
	if len(docs) == 0 {
		fmt.Println("No documents stored.")
		return nil
	}
	for _, d := range docs {
		fmt.Fprintf(os.Stdout, "%d  %-40s  %2d resolved  %s\n", d.Year, d.Source, d.Resolved, d.StoredAt)
		if d.Warning != "" {
			fmt.Fprintf(os.Stdout, "      warning: %s\n", d.Warning)
		}
	}
	return nil
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored long table to YAML or JSON",
	Long: `Export writes the stored rows (or a filtered subset) to export.yaml or
export.json in the configured export directory. Missing values are
written as null.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	opts := queryOptsFromFlags(cmd)

	var path string
	switch format {
	case "yaml", "":
		path, err = s.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = s.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

// --- shared helpers ---

func openStore() (*store.Store, error) {
	cfg, err := loadPipelineConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return store.NewStore(cfg.Store)
}

func queryOptsFromFlags(cmd *cobra.Command) store.QueryOptions {
	year, _ := cmd.Flags().GetInt("year")
	category, _ := cmd.Flags().GetString("category")
	return store.QueryOptions{Year: year, Category: category}
}

func init() {
	for _, c := range []*cobra.Command{queryCmd, exportCmd} {
		c.Flags().Int("year", 0, "filter by report year")
		c.Flags().String("category", "", "filter by category label (case-insensitive)")
	}
	queryCmd.Flags().Bool("documents", false, "list stored documents instead of rows")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(exportCmd)
}

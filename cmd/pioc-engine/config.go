// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pioc-engine/pkg/types"
)

// setDefaults registers every configuration key so that environment
// variables and Unmarshal see them even without a config file.
func setDefaults(v *viper.Viper) {
	d := types.DefaultPipelineConfig()
	v.SetDefault("start_page", d.Extraction.StartPage)
	v.SetDefault("stop_when_resolved", d.Extraction.StopWhenResolved)
	v.SetDefault("normalize_unicode", d.Extraction.NormalizeUnicode)
	v.SetDefault("categories", types.DefaultLabels())
	v.SetDefault("backend", string(d.Conversion.Backend))
	v.SetDefault("cache_ttl", d.Conversion.CacheTTL)
	v.SetDefault("store.db_path", d.Store.DBPath)
	v.SetDefault("store.export_dir", d.Store.ExportDir)
}

// loadPipelineConfig decodes the merged viper settings.
func loadPipelineConfig(v *viper.Viper) (types.PipelineConfig, error) {
	cfg := types.DefaultPipelineConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return types.PipelineConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// readManifest parses a YAML manifest. It accepts either a bare list of
// {path, year} entries or a mapping with a documents key.
func readManifest(path string) ([]types.CorpusEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var entries []types.CorpusEntry
	if err := yaml.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}

	var doc struct {
		Documents []types.CorpusEntry `yaml:"documents"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return doc.Documents, nil
}

// parseEntryArg parses a "path:year" command-line argument.
func parseEntryArg(arg string) (types.CorpusEntry, error) {
	i := strings.LastIndex(arg, ":")
	if i <= 0 || i == len(arg)-1 {
		return types.CorpusEntry{}, fmt.Errorf("argument %q: want path:year", arg)
	}
	year, err := strconv.Atoi(arg[i+1:])
	if err != nil {
		return types.CorpusEntry{}, fmt.Errorf("argument %q: invalid year: %w", arg, err)
	}
	return types.CorpusEntry{Path: arg[:i], Year: year}, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pioc-engine CLI.
package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is the CLI's structured logger; it writes to stderr so that
// stdout carries only tables and JSON.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

// rootCmd is the base command for the pioc-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "pioc-engine",
	Short: "Compile category percentage changes from PIOC reports",
	Long: `pioc-engine reads a series of annual Price Index of Operating Costs
reports, pulls the year-over-year percentage change for each cost category
out of the report text, and assembles a long table of
(year, category, percentage change) rows.

Use extract to compile reports, query to list stored rows, and export to
write the stored table to YAML or JSON.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pioc-engine.yaml or ~/.config/pioc-engine/pioc-engine.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pioc-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pioc-engine"))
		}
	}

	viper.SetEnvPrefix("PIOC_ENGINE")
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		logger.Info().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	} else if cfgFile != "" {
		logger.Warn().Err(err).Str("file", cfgFile).Msg("reading config file")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ald-corpus CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ald-corpus/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is the process-wide console logger; stages that tee into a
// report file build their own logger on top of consoleWriter.
var logger zerolog.Logger

// loadedSecrets holds API keys loaded from the secrets directory at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// consoleWriter returns the standard console log sink.
func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
}

// rootCmd is the base command for the ald-corpus CLI.
var rootCmd = &cobra.Command{
	Use:   "ald-corpus",
	Short: "Build a corpus of atomic layer deposition papers",
	Long: `ald-corpus builds a research corpus of atomic layer deposition (ALD)
papers. It fetches the work list of DOIs from the ALD process database,
downloads the papers politely with retries, and extracts per-page text
and figures into a machine-learning-ready dataset.

Each pipeline stage is a subcommand: acquire, extract, catalog, and
check. Stages are resumable; documents with existing output are skipped.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		secretsDir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(secretsDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ald-corpus.yaml or ~/.config/ald-corpus/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory with one file per secret (filename = key)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ald-corpus")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ald-corpus"))
		}
	}

	viper.SetEnvPrefix("ALD_CORPUS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	logger = zerolog.New(consoleWriter()).With().Timestamp().Logger()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

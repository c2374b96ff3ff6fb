// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the clipcat CLI: it parses reading
// annotation exports, reconciles them against a local catalog, resolves
// book metadata, and imports derived highlight notes.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"clipcat/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, else the named secret if present.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the clipcat CLI.
var rootCmd = &cobra.Command{
	Use:   "clipcat",
	Short: "Import reading annotations into a book catalog",
	Long: `clipcat ingests a "My Clippings.txt" export, groups annotations by
source document, reconciles the documents against an existing catalog with
fuzzy title matching, resolves bibliographic metadata for unknown books,
and writes derived highlight notes into the catalog. Re-running an import
is safe: unchanged documents are detected by content fingerprint and skipped.

Each pipeline stage is a subcommand: parse, match, resolve, and import.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./clipcat.yaml or ~/.config/clipcat/config.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "catalog database path (default: catalog.db)")
}

func initConfig() {
	// A .env file may carry CLIPCAT_* variables; absence is fine.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("clipcat")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "clipcat"))
		}
	}

	viper.SetEnvPrefix("CLIPCAT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

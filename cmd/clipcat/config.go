// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"clipcat/pkg/types"
)

// pipelineConfig builds the stage configuration from defaults, the viper
// config file/environment, loaded secrets, and command flags, in that
// order of increasing precedence.
func pipelineConfig(cmd *cobra.Command) types.Config {
	cfg := types.DefaultConfig()

	if viper.IsSet("match.candidate_floor") {
		cfg.Match.CandidateFloor = viper.GetFloat64("match.candidate_floor")
	}
	if viper.IsSet("match.confident_floor") {
		cfg.Match.ConfidentFloor = viper.GetFloat64("match.confident_floor")
	}
	if viper.IsSet("match.author_floor") {
		cfg.Match.AuthorFloor = viper.GetFloat64("match.author_floor")
	}
	if viper.IsSet("match.max_review_candidates") {
		cfg.Match.MaxReviewCandidates = viper.GetInt("match.max_review_candidates")
	}

	if viper.IsSet("lookup.enable_google_books") {
		cfg.Lookup.EnableGoogleBooks = viper.GetBool("lookup.enable_google_books")
	}
	if viper.IsSet("lookup.enable_open_library") {
		cfg.Lookup.EnableOpenLibrary = viper.GetBool("lookup.enable_open_library")
	}
	if viper.IsSet("lookup.accept_floor") {
		cfg.Lookup.AcceptFloor = viper.GetFloat64("lookup.accept_floor")
	}
	if viper.IsSet("lookup.review_floor") {
		cfg.Lookup.ReviewFloor = viper.GetFloat64("lookup.review_floor")
	}
	if viper.IsSet("lookup.attempt_delay") {
		cfg.Lookup.AttemptDelay = viper.GetDuration("lookup.attempt_delay")
	}
	if viper.IsSet("lookup.timeout") {
		cfg.Lookup.Timeout = viper.GetDuration("lookup.timeout")
	}
	cfg.Lookup.GoogleBooksAPIKey = secretDefault("google-books-api-key",
		viper.GetString("lookup.google_books_api_key"))

	if viper.IsSet("import.collection_name") {
		cfg.Import.CollectionName = viper.GetString("import.collection_name")
	}
	if viper.IsSet("import.catalog_path") {
		cfg.Import.CatalogPath = viper.GetString("import.catalog_path")
	}
	if cmd != nil {
		if path, _ := cmd.Flags().GetString("catalog"); path != "" {
			cfg.Import.CatalogPath = path
		}
	}

	return cfg
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"clipcat/internal/catalog"
	"clipcat/internal/clippings"
	"clipcat/internal/lookup"
	"clipcat/internal/match"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <clippings-file>",
	Short: "Look up book metadata for documents not in the catalog",
	Long: `Resolve parses a clippings export, matches it against the catalog, and
looks up metadata for the documents that would be imported as new books.
Lookup failures degrade to origin-provenance records built from the
clippings themselves; the command never aborts because a provider is down.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig(cmd)

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading clippings file: %w", err)
		}
		result := clippings.Parse(string(raw))

		store, err := catalog.Open(cfg.Import.CatalogPath)
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer store.Close()

		items, err := store.ListItems(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing catalog items: %w", err)
		}
		outcome := match.Match(result.Documents, matchEntries(items), cfg.Match)
		if len(outcome.New) == 0 {
			fmt.Println("No new documents to resolve.")
			return nil
		}

		resolver := lookup.NewResolver(cfg.Lookup)
		progress := func(done, total int, title string) {
			fmt.Printf("[%d/%d] %s\n", done, total, title)
		}
		resolved := resolver.ResolveAll(cmd.Context(), outcome.New, progress, os.Stderr)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Title", "Authors", "Year", "ISBN", "Source", "Confidence", "Review"})
		for _, r := range resolved {
			t.AppendRow(table.Row{
				r.Metadata.Title,
				joinAuthors(r.Metadata.Authors),
				r.Metadata.Year,
				r.Metadata.ISBN,
				string(r.Metadata.Provenance),
				fmt.Sprintf("%.2f", r.Metadata.Confidence),
				r.NeedsReview,
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

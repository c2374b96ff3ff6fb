// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"clipcat/internal/catalog"
	"clipcat/internal/clippings"
	"clipcat/internal/match"
)

var matchCmd = &cobra.Command{
	Use:   "match <clippings-file>",
	Short: "Match parsed documents against the catalog",
	Long: `Match parses a clippings export and partitions its documents into
confident matches, needs-review candidates, and new documents, without
writing anything. Use it to preview what an import would do.`,
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
		printOutcome(outcome)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

// matchEntries adapts catalog items to the matcher's entry interface.
func matchEntries(items []catalog.Item) []match.Entry {
	entries := make([]match.Entry, len(items))
	for i, item := range items {
		entries[i] = item
	}
	return entries
}

func printOutcome(outcome match.Outcome) {
	fmt.Printf("%d matched, %d need review, %d new\n\n",
		len(outcome.Matched), len(outcome.NeedsReview), len(outcome.New))

	if len(outcome.Matched) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle("Matched")
		t.AppendHeader(table.Row{"Document", "Catalog Item", "Title Score", "Author Score"})
		for _, m := range outcome.Matched {
			t.AppendRow(table.Row{
				m.Document.DisplayTitle,
				m.Entry.Title(),
				fmt.Sprintf("%.2f", m.TitleScore),
				fmt.Sprintf("%.2f", m.AuthorScore),
			})
		}
		t.Render()
		fmt.Println()
	}

	if len(outcome.NeedsReview) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle("Needs Review")
		t.AppendHeader(table.Row{"Document", "Candidate", "Title Score", "Author Score"})
		for _, r := range outcome.NeedsReview {
			for i, c := range r.Candidates {
				doc := ""
				if i == 0 {
					doc = r.Document.DisplayTitle
				}
				t.AppendRow(table.Row{
					doc,
					c.Entry.Title(),
					fmt.Sprintf("%.2f", c.TitleScore),
					fmt.Sprintf("%.2f", c.AuthorScore),
				})
			}
		}
		t.Render()
		fmt.Println()
	}

	if len(outcome.New) > 0 {
		titles := make([]string, len(outcome.New))
		for i, doc := range outcome.New {
			titles[i] = doc.DisplayTitle
		}
		fmt.Printf("New documents: %s\n", strings.Join(titles, ", "))
	}
}

func joinAuthors(authors []string) string {
	return strings.Join(authors, ", ")
}

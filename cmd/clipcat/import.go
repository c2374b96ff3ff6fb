// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"clipcat/internal/catalog"
	"clipcat/internal/clippings"
	"clipcat/internal/importer"
	"clipcat/internal/lookup"
	"clipcat/internal/match"
	"clipcat/pkg/types"
)

// Review policies for documents the matcher could not place confidently.
const (
	reviewSkip = "skip" // leave them out of the import entirely
	reviewTop  = "top"  // accept the highest-scoring candidate
	reviewNew  = "new"  // treat them as new documents
)

var importCmd = &cobra.Command{
	Use:   "import <clippings-file>",
	Short: "Run the full pipeline and write annotations into the catalog",
	Long: `Import parses a clippings export, matches its documents against the
catalog, resolves metadata for new ones, and writes annotation notes.
Re-running an import is safe: unchanged documents are skipped via the
content fingerprint embedded in each note, and changed ones replace their
previous note.

Documents the matcher could not place confidently are handled by
--review-policy: "skip" leaves them out, "top" accepts each document's
best candidate, "new" imports them as new catalog records.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig(cmd)
		policy, _ := cmd.Flags().GetString("review-policy")
		switch policy {
		case reviewSkip, reviewTop, reviewNew:
		default:
			return fmt.Errorf("unknown review policy %q (want skip, top, or new)", policy)
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading clippings file: %w", err)
		}
		result := clippings.Parse(string(raw))
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "warning: %s\n", e)
		}

		store, err := catalog.Open(cfg.Import.CatalogPath)
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer store.Close()

		ctx := cmd.Context()
		items, err := store.ListItems(ctx)
		if err != nil {
			return fmt.Errorf("listing catalog items: %w", err)
		}
		outcome := match.Match(result.Documents, matchEntries(items), cfg.Match)

		input, reviewSkipped := buildInput(outcome, policy)
		if len(input.NewDocs) > 0 {
			resolver := lookup.NewResolver(cfg.Lookup)
			progress := func(done, total int, title string) {
				fmt.Printf("resolving [%d/%d] %s\n", done, total, title)
			}
			input.Resolved = resolver.ResolveAll(ctx, input.NewDocs, progress, os.Stderr)
		}

		in := importer.Input{Matched: input.Matched, New: input.Resolved}
		progress := func(done, total int, title string) {
			fmt.Printf("importing [%d/%d] %s\n", done, total, title)
		}
		report, err := importer.ImportAll(ctx, in, store, cfg.Import, progress, os.Stderr)
		if err != nil {
			return err
		}

		printReport(report, reviewSkipped)
		return nil
	},
}

func init() {
	importCmd.Flags().String("review-policy", reviewSkip,
		"how to handle documents needing review: skip, top, or new")
	rootCmd.AddCommand(importCmd)
}

// importInput is the import work list after the review policy is applied.
type importInput struct {
	Matched  []importer.Pair
	NewDocs  []*types.DocumentRecord
	Resolved []lookup.Resolved
}

// buildInput applies the review policy to the match outcome. Returns the
// work list plus the number of documents dropped by the skip policy.
func buildInput(outcome match.Outcome, policy string) (importInput, int) {
	var in importInput
	for _, m := range outcome.Matched {
		in.Matched = append(in.Matched, importer.Pair{
			Document: m.Document,
			Item:     m.Entry.(catalog.Item),
		})
	}
	in.NewDocs = append(in.NewDocs, outcome.New...)

	skipped := 0
	for _, r := range outcome.NeedsReview {
		switch policy {
		case reviewTop:
			in.Matched = append(in.Matched, importer.Pair{
				Document: r.Document,
				Item:     r.Candidates[0].Entry.(catalog.Item),
			})
		case reviewNew:
			in.NewDocs = append(in.NewDocs, r.Document)
		default:
			skipped++
		}
	}
	return in, skipped
}

func printReport(report importer.Report, reviewSkipped int) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Import Report")
	t.AppendRow(table.Row{"Notes added", report.Added})
	t.AppendRow(table.Row{"Notes updated", report.Updated})
	t.AppendRow(table.Row{"Books created", report.BooksCreated})
	t.AppendRow(table.Row{"Unchanged (skipped)", report.Skipped})
	t.AppendRow(table.Row{"Failed", len(report.Failures)})
	if reviewSkipped > 0 {
		t.AppendRow(table.Row{"Needs review (not imported)", strconv.Itoa(reviewSkipped)})
	}
	t.Render()

	for _, f := range report.Failures {
		fmt.Fprintf(os.Stderr, "failed: %s: %s\n", f.Title, f.Reason)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"clipcat/internal/clippings"
)

var parseCmd = &cobra.Command{
	Use:   "parse <clippings-file>",
	Short: "Parse a clippings export and summarize its documents",
	Long: `Parse splits a "My Clippings.txt" export into per-document annotation
records and prints a summary. Bookmarks, malformed blocks, and restricted
placeholders are skipped; blocks with surprising structure are reported
but never abort the parse.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading clippings file: %w", err)
		}

		result := clippings.Parse(string(raw))

		asYAML, _ := cmd.Flags().GetBool("yaml")
		if asYAML {
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			return enc.Encode(result.SortedDocuments())
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Title", "Authors", "Highlights", "Notes"})
		for _, doc := range result.SortedDocuments() {
			t.AppendRow(table.Row{
				doc.DisplayTitle,
				joinAuthors(doc.Authors),
				len(doc.Highlights),
				len(doc.Notes),
			})
		}
		t.Render()

		fmt.Printf("\n%d documents, %d entries skipped\n", len(result.Documents), result.Skipped)
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "warning: %s\n", e)
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().Bool("yaml", false, "dump parsed documents as YAML")
	rootCmd.AddCommand(parseCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"context"
	"fmt"
	"io"
	"time"

	"clipcat/internal/catalog"
	"clipcat/internal/lookup"
	"clipcat/pkg/types"
)

// Pair binds a document to the catalog item it matched, either confidently
// or after external review confirmation.
type Pair struct {
	Document *types.DocumentRecord
	Item     catalog.Item
}

// Input is one import run's worth of work: matched/confirmed pairs plus
// new documents with resolved metadata.
type Input struct {
	Matched []Pair
	New     []lookup.Resolved
}

// Failure records one document that could not be imported.
type Failure struct {
	Title  string
	Reason string
}

// Report accumulates the outcome of an import run.
type Report struct {
	Added        int
	Updated      int
	BooksCreated int
	Skipped      int
	Failures     []Failure
}

// Total returns the number of documents processed, including failures.
func (r Report) Total() int {
	return r.Added + r.Updated + r.Skipped + len(r.Failures)
}

// Progress is invoked exactly once per processed document, after that
// document's outcome is finalized. total is fixed for the whole run.
type Progress func(done, total int, title string)

// now is swappable so artifact rendering is deterministic in tests.
var now = time.Now

// ImportAll writes every document in the input through the catalog
// collaborator. The import collection is resolved once up front; a failure
// there aborts the run, but any later per-document failure is recorded in
// the report and processing continues. Cancellation is checked between
// documents: once the context is done no further catalog writes are
// issued, though work already committed stays committed.
func ImportAll(ctx context.Context, in Input, cat catalog.Catalog, cfg types.ImportConfig, progress Progress, w io.Writer) (Report, error) {
	if cfg.CollectionName == "" {
		cfg.CollectionName = types.DefaultImportConfig().CollectionName
	}

	var report Report

	collectionID, err := cat.GetOrCreateCollection(ctx, cfg.CollectionName)
	if err != nil {
		return report, fmt.Errorf("resolving import collection %q: %w", cfg.CollectionName, err)
	}

	total := len(in.Matched) + len(in.New)
	done := 0

	finish := func(title string) {
		done++
		if progress != nil {
			progress(done, total, title)
		}
	}

	for _, pair := range in.Matched {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		title := pair.Document.DisplayTitle
		if err := importPair(ctx, pair, cat, collectionID, &report, w); err != nil {
			report.Failures = append(report.Failures, Failure{Title: title, Reason: err.Error()})
			fmt.Fprintf(w, "failed  %s: %v\n", title, err)
		}
		finish(title)
	}

	for _, resolved := range in.New {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		title := resolved.Document.DisplayTitle
		if err := importNew(ctx, resolved, cat, collectionID, &report, w); err != nil {
			report.Failures = append(report.Failures, Failure{Title: title, Reason: err.Error()})
			fmt.Fprintf(w, "failed  %s: %v\n", title, err)
		}
		finish(title)
	}

	return report, nil
}

// importPair ensures collection membership, then adds, refreshes, or
// skips the item's artifact based on the stored fingerprint.
func importPair(ctx context.Context, pair Pair, cat catalog.Catalog, collectionID string, report *Report, w io.Writer) error {
	itemID := pair.Item.ID()
	if err := cat.AddToCollection(ctx, itemID, collectionID); err != nil {
		return fmt.Errorf("adding to collection: %w", err)
	}

	existing, err := findImportNote(ctx, cat, itemID)
	if err != nil {
		return err
	}

	fp := ComputeFingerprint(pair.Document)

	if existing == nil {
		if _, err := cat.CreateNote(ctx, itemID, renderArtifact(pair.Document, fp, now())); err != nil {
			return fmt.Errorf("creating artifact: %w", err)
		}
		report.Added++
		fmt.Fprintf(w, "added   %s\n", pair.Document.DisplayTitle)
		return nil
	}

	if stored, ok := parseMarker(existing.Content); ok && stored.Equal(fp) {
		report.Skipped++
		fmt.Fprintf(w, "skipped %s\n", pair.Document.DisplayTitle)
		return nil
	}

	// Changed content or a legacy artifact without a usable fingerprint:
	// replace the stale artifact.
	if err := cat.DeleteNote(ctx, existing.ID); err != nil {
		return fmt.Errorf("deleting stale artifact: %w", err)
	}
	if _, err := cat.CreateNote(ctx, itemID, renderArtifact(pair.Document, fp, now())); err != nil {
		return fmt.Errorf("creating replacement artifact: %w", err)
	}
	report.Updated++
	fmt.Fprintf(w, "updated %s\n", pair.Document.DisplayTitle)
	return nil
}

// importNew creates a catalog record from resolved metadata, falling back
// to the document's own title and authors where metadata is missing, then
// writes the first artifact unconditionally.
func importNew(ctx context.Context, resolved lookup.Resolved, cat catalog.Catalog, collectionID string, report *Report, w io.Writer) error {
	doc := resolved.Document
	md := resolved.Metadata

	rec := catalog.NewRecord{
		Title:     md.Title,
		Authors:   md.Authors,
		Publisher: md.Publisher,
		Year:      md.Year,
		ISBN:      md.ISBN,
		Language:  md.Language,
		NumPages:  md.NumPages,
	}
	if rec.Title == "" {
		rec.Title = doc.DisplayTitle
	}
	if len(rec.Authors) == 0 {
		rec.Authors = doc.Authors
	}

	itemID, err := cat.CreateItem(ctx, rec)
	if err != nil {
		return fmt.Errorf("creating record: %w", err)
	}
	if err := cat.AddToCollection(ctx, itemID, collectionID); err != nil {
		return fmt.Errorf("adding to collection: %w", err)
	}

	fp := ComputeFingerprint(doc)
	if _, err := cat.CreateNote(ctx, itemID, renderArtifact(doc, fp, now())); err != nil {
		return fmt.Errorf("creating artifact: %w", err)
	}

	report.BooksCreated++
	report.Added++
	fmt.Fprintf(w, "created %s\n", doc.DisplayTitle)
	return nil
}

// findImportNote scans an item's notes for the one written by this system.
func findImportNote(ctx context.Context, cat catalog.Catalog, itemID string) (*catalog.Note, error) {
	notes, err := cat.Notes(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}
	for i := range notes {
		if isImportArtifact(notes[i].Content) {
			return &notes[i], nil
		}
	}
	return nil, nil
}

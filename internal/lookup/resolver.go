// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lookup resolves bibliographic metadata for parsed documents by
// querying external book APIs in a fixed order and accepting the first
// result whose title clears a confidence floor. Service errors never
// propagate: a failed attempt just falls through to the next source, and
// when every attempt fails the resolver returns a minimal record built
// from the document's own title and authors.
package lookup

import (
	"context"
	"fmt"
	"io"
	"time"

	"clipcat/internal/textmatch"
	"clipcat/pkg/types"
)

// Source queries a single bibliographic service. Each service (Google
// Books, Open Library) implements this interface; base URLs are package
// vars so tests can substitute httptest servers.
type Source interface {
	Name() string
	// Search returns the source's best candidate for the query, or nil
	// when the source found nothing usable.
	Search(ctx context.Context, title, author string, cfg types.LookupConfig) (*types.BookMetadata, error)
}

// Resolver runs the ordered lookup attempts against its configured sources.
type Resolver struct {
	GoogleBooks Source
	OpenLibrary Source
	Config      types.LookupConfig

	// sleep is swappable so tests skip the pacing delay.
	sleep func(time.Duration)
}

// NewResolver builds a resolver with real API clients.
func NewResolver(cfg types.LookupConfig) *Resolver {
	if cfg.AcceptFloor == 0 {
		cfg.AcceptFloor = types.DefaultLookupConfig().AcceptFloor
	}
	if cfg.ReviewFloor == 0 {
		cfg.ReviewFloor = types.DefaultLookupConfig().ReviewFloor
	}
	// Both flags false is indistinguishable from a zero-value config, so
	// it selects the default of both sources enabled.
	if !cfg.EnableGoogleBooks && !cfg.EnableOpenLibrary {
		cfg.EnableGoogleBooks = true
		cfg.EnableOpenLibrary = true
	}
	return &Resolver{
		GoogleBooks: NewGoogleBooksSource(cfg),
		OpenLibrary: NewOpenLibrarySource(cfg),
		Config:      cfg,
		sleep:       time.Sleep,
	}
}

// attempt is one (source, query) pair in the resolution order.
type attempt struct {
	source Source
	title  string
	author string
}

// Resolve tries, in order: Google Books with title and first author,
// Google Books with title only, then Open Library with title and author.
// The first result whose title similarity clears the accept floor wins.
// Warnings for failed attempts go to w; the caller never sees an error.
func (r *Resolver) Resolve(ctx context.Context, doc *types.DocumentRecord, w io.Writer) types.BookMetadata {
	firstAuthor := ""
	if len(doc.Authors) > 0 {
		firstAuthor = doc.Authors[0]
	}

	var attempts []attempt
	if r.Config.EnableGoogleBooks && r.GoogleBooks != nil {
		if firstAuthor != "" {
			attempts = append(attempts, attempt{r.GoogleBooks, doc.DisplayTitle, firstAuthor})
		}
		attempts = append(attempts, attempt{r.GoogleBooks, doc.DisplayTitle, ""})
	}
	if r.Config.EnableOpenLibrary && r.OpenLibrary != nil {
		attempts = append(attempts, attempt{r.OpenLibrary, doc.DisplayTitle, firstAuthor})
	}

	queryTokens := textmatch.Tokenize(doc.DisplayTitle)

	for i, a := range attempts {
		if i > 0 {
			r.pace(ctx)
		}
		md, err := a.source.Search(ctx, a.title, a.author, r.Config)
		if err != nil {
			fmt.Fprintf(w, "warning: %s lookup failed for %q: %v\n", a.source.Name(), doc.DisplayTitle, err)
			continue
		}
		if md == nil {
			continue
		}
		score := textmatch.Compare(queryTokens, textmatch.Tokenize(md.Title))
		if score < r.Config.AcceptFloor {
			continue
		}
		md.Confidence = score
		return *md
	}

	return fallbackMetadata(doc)
}

// Resolved pairs a document with its metadata and the review flag the
// import stage consults.
type Resolved struct {
	Document *types.DocumentRecord
	Metadata types.BookMetadata

	// NeedsReview is set for origin fallbacks and low-confidence results.
	NeedsReview bool
}

// ResolveAll processes documents sequentially, preserving input order and
// pacing attempts to respect third-party rate limits. The progress
// callback fires after each document with (completed, total, title).
func (r *Resolver) ResolveAll(ctx context.Context, docs []*types.DocumentRecord, progress func(done, total int, title string), w io.Writer) []Resolved {
	resolved := make([]Resolved, 0, len(docs))
	for i, doc := range docs {
		if i > 0 {
			r.pace(ctx)
		}
		md := r.Resolve(ctx, doc, w)
		resolved = append(resolved, Resolved{
			Document:    doc,
			Metadata:    md,
			NeedsReview: md.Provenance == types.ProvenanceOrigin || md.Confidence < r.Config.ReviewFloor,
		})
		if progress != nil {
			progress(i+1, len(docs), doc.DisplayTitle)
		}
	}
	return resolved
}

// pace sleeps the configured attempt delay unless the context is done.
func (r *Resolver) pace(ctx context.Context) {
	if r.Config.AttemptDelay <= 0 {
		return
	}
	sleep := r.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	select {
	case <-ctx.Done():
	default:
		sleep(r.Config.AttemptDelay)
	}
}

// fallbackMetadata builds the origin-provenance record used when every
// lookup attempt failed.
func fallbackMetadata(doc *types.DocumentRecord) types.BookMetadata {
	return types.BookMetadata{
		Title:      doc.DisplayTitle,
		Authors:    append([]string(nil), doc.Authors...),
		Provenance: types.ProvenanceOrigin,
		Confidence: 0,
	}
}

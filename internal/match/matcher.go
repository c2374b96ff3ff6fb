// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match reconciles parsed documents against an existing catalog
// using fuzzy title and author similarity, partitioning them into
// confident matches, needs-review candidates, and new documents.
package match

import (
	"sort"
	"strings"

	"clipcat/internal/textmatch"
	"clipcat/pkg/types"
)

// Entry is the view of a catalog record the matcher needs. Catalog
// implementations and test fakes satisfy it at the collaborator boundary;
// the matcher never inspects the concrete shape behind it.
type Entry interface {
	Title() string
	Authors() []string
}

// Candidate is one catalog entry scored against a document.
type Candidate struct {
	Entry       Entry
	TitleScore  float64
	AuthorScore float64
}

// Matched pairs a document with the single catalog entry accepted for it.
type Matched struct {
	Document *types.DocumentRecord
	Candidate
}

// Review carries a document whose best candidates were not confident
// enough to accept automatically, with up to MaxReviewCandidates of them
// in score order for external resolution.
type Review struct {
	Document   *types.DocumentRecord
	Candidates []Candidate
}

// Outcome partitions one match run. Every input document lands in exactly
// one of the three lists.
type Outcome struct {
	Matched     []Matched
	NeedsReview []Review
	New         []*types.DocumentRecord
}

// indexed holds the precomputed token sets for one catalog entry, built
// once per run so the catalog is not retokenized per document.
type indexed struct {
	entry   Entry
	title   textmatch.TokenSet
	authors textmatch.TokenSet
}

// Match scores every document against every catalog entry and classifies
// each by the configured threshold floors. Documents are processed in
// identity-key order and candidate ties are broken only by the score
// comparisons, so identical inputs always produce identical outcomes.
func Match(documents map[string]*types.DocumentRecord, entries []Entry, cfg types.MatchConfig) Outcome {
	if cfg.CandidateFloor == 0 && cfg.ConfidentFloor == 0 {
		cfg = types.DefaultMatchConfig()
	}

	index := make([]indexed, len(entries))
	for i, e := range entries {
		index[i] = indexed{
			entry:   e,
			title:   textmatch.Tokenize(e.Title()),
			authors: textmatch.Tokenize(strings.Join(e.Authors(), " ")),
		}
	}

	keys := make([]string, 0, len(documents))
	for k := range documents {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var outcome Outcome
	for _, key := range keys {
		doc := documents[key]
		classify(doc, index, cfg, &outcome)
	}
	return outcome
}

// classify scores one document and appends it to the proper partition.
func classify(doc *types.DocumentRecord, index []indexed, cfg types.MatchConfig, outcome *Outcome) {
	docTitle := textmatch.Tokenize(doc.DisplayTitle)
	docAuthors := textmatch.Tokenize(strings.Join(doc.Authors, " "))
	hasAuthors := len(docAuthors) > 0

	var candidates []Candidate
	for _, ix := range index {
		titleScore := textmatch.TitleSimilarity(docTitle, ix.title)
		if titleScore < cfg.CandidateFloor {
			continue
		}
		// Author comparison is skipped entirely for documents without
		// author data; the missing side must not penalize the match.
		authorScore := 0.0
		if hasAuthors {
			authorScore = textmatch.Dice(docAuthors, ix.authors)
		}
		candidates = append(candidates, Candidate{
			Entry:       ix.entry,
			TitleScore:  titleScore,
			AuthorScore: authorScore,
		})
	}

	if len(candidates) == 0 {
		outcome.New = append(outcome.New, doc)
		return
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].TitleScore != candidates[j].TitleScore {
			return candidates[i].TitleScore > candidates[j].TitleScore
		}
		return candidates[i].AuthorScore > candidates[j].AuthorScore
	})

	top := candidates[0]
	if top.TitleScore >= cfg.ConfidentFloor && (!hasAuthors || top.AuthorScore >= cfg.AuthorFloor) {
		outcome.Matched = append(outcome.Matched, Matched{Document: doc, Candidate: top})
		return
	}

	limit := cfg.MaxReviewCandidates
	if limit <= 0 {
		limit = types.DefaultMatchConfig().MaxReviewCandidates
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	outcome.NeedsReview = append(outcome.NeedsReview, Review{Document: doc, Candidates: candidates})
}

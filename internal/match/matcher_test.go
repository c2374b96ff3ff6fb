package match

import (
	"fmt"
	"testing"

	"clipcat/pkg/types"
)

// fakeEntry is a minimal catalog entry for matcher tests.
type fakeEntry struct {
	title   string
	authors []string
}

func (f fakeEntry) Title() string     { return f.title }
func (f fakeEntry) Authors() []string { return f.authors }

func docs(records ...*types.DocumentRecord) map[string]*types.DocumentRecord {
	m := make(map[string]*types.DocumentRecord, len(records))
	for _, r := range records {
		m[r.Key()] = r
	}
	return m
}

func TestMatchIdenticalTitleAndAuthor(t *testing.T) {
	doc := &types.DocumentRecord{
		DisplayTitle: "The Pragmatic Programmer",
		Authors:      []string{"Andrew Hunt", "David Thomas"},
	}
	entries := []Entry{
		fakeEntry{title: "The Pragmatic Programmer", authors: []string{"Andrew Hunt", "David Thomas"}},
	}

	out := Match(docs(doc), entries, types.DefaultMatchConfig())
	if len(out.Matched) != 1 || len(out.NeedsReview) != 0 || len(out.New) != 0 {
		t.Fatalf("partition = %d/%d/%d, want 1/0/0",
			len(out.Matched), len(out.NeedsReview), len(out.New))
	}
	if out.Matched[0].TitleScore != 1.0 {
		t.Errorf("TitleScore = %f, want 1.0", out.Matched[0].TitleScore)
	}
}

func TestMatchEmptyCatalog(t *testing.T) {
	a := &types.DocumentRecord{DisplayTitle: "Dune", Authors: []string{"Frank Herbert"}}
	b := &types.DocumentRecord{DisplayTitle: "Neuromancer"}

	out := Match(docs(a, b), nil, types.DefaultMatchConfig())
	if len(out.New) != 2 {
		t.Fatalf("New = %d, want 2", len(out.New))
	}
	if len(out.Matched) != 0 || len(out.NeedsReview) != 0 {
		t.Errorf("partition = %d/%d, want 0/0", len(out.Matched), len(out.NeedsReview))
	}
}

func TestMatchAuthorlessDocumentStillMatches(t *testing.T) {
	// Author mismatch must not block a confident title when the document
	// side has no author data at all.
	doc := &types.DocumentRecord{DisplayTitle: "Snow Crash"}
	entries := []Entry{
		fakeEntry{title: "Snow Crash", authors: []string{"Neal Stephenson"}},
	}

	out := Match(docs(doc), entries, types.DefaultMatchConfig())
	if len(out.Matched) != 1 {
		t.Fatalf("Matched = %d, want 1 (got %d review, %d new)",
			len(out.Matched), len(out.NeedsReview), len(out.New))
	}
	if out.Matched[0].AuthorScore != 0 {
		t.Errorf("AuthorScore = %f, want 0 for authorless document", out.Matched[0].AuthorScore)
	}
}

func TestMatchDocumentAuthorsAgainstAuthorlessEntry(t *testing.T) {
	// The exemption only applies when the document side lacks authors.
	// A document with authors scored against an entry with none gets
	// author score 0 and routes to review even on an exact title.
	doc := &types.DocumentRecord{
		DisplayTitle: "Snow Crash",
		Authors:      []string{"Neal Stephenson"},
	}
	entries := []Entry{fakeEntry{title: "Snow Crash"}}

	out := Match(docs(doc), entries, types.DefaultMatchConfig())
	if len(out.NeedsReview) != 1 {
		t.Fatalf("NeedsReview = %d, want 1 (got %d matched, %d new)",
			len(out.NeedsReview), len(out.Matched), len(out.New))
	}
}

func TestMatchSubtitleNeverNew(t *testing.T) {
	doc := &types.DocumentRecord{DisplayTitle: "The Pragmatic Programmer: 20th Anniversary Edition"}
	entries := []Entry{fakeEntry{title: "The Pragmatic Programmer"}}

	out := Match(docs(doc), entries, types.DefaultMatchConfig())
	if len(out.New) != 0 {
		t.Fatalf("subtitled document classified New; want matched or review")
	}
}

func TestMatchLowAuthorScoreRoutesToReview(t *testing.T) {
	doc := &types.DocumentRecord{
		DisplayTitle: "Collected Essays",
		Authors:      []string{"Zadie Smith"},
	}
	entries := []Entry{
		fakeEntry{title: "Collected Essays", authors: []string{"George Orwell"}},
	}

	out := Match(docs(doc), entries, types.DefaultMatchConfig())
	if len(out.NeedsReview) != 1 {
		t.Fatalf("NeedsReview = %d, want 1", len(out.NeedsReview))
	}
	r := out.NeedsReview[0]
	if len(r.Candidates) != 1 {
		t.Fatalf("Candidates = %d, want 1", len(r.Candidates))
	}
	if r.Candidates[0].AuthorScore >= types.DefaultMatchConfig().AuthorFloor {
		t.Errorf("AuthorScore = %f, expected below the author floor", r.Candidates[0].AuthorScore)
	}
}

func TestMatchReviewCandidatesCappedAndOrdered(t *testing.T) {
	// Identical titles but the document carries authors the catalog rows
	// lack, so every candidate has author score 0 and none is confident.
	doc := &types.DocumentRecord{
		DisplayTitle: "A History of Rome",
		Authors:      []string{"Theodor Mommsen"},
	}

	var entries []Entry
	for i := 1; i <= 8; i++ {
		entries = append(entries, fakeEntry{
			title: fmt.Sprintf("A History of Rome (copy %d)", i),
		})
	}

	out := Match(docs(doc), entries, types.DefaultMatchConfig())
	if len(out.NeedsReview) != 1 {
		t.Fatalf("NeedsReview = %d, want 1 (got %d matched, %d new)",
			len(out.NeedsReview), len(out.Matched), len(out.New))
	}
	cands := out.NeedsReview[0].Candidates
	if len(cands) > 5 {
		t.Errorf("candidates = %d, want at most 5", len(cands))
	}
	for i := 1; i < len(cands); i++ {
		if cands[i].TitleScore > cands[i-1].TitleScore {
			t.Errorf("candidates not sorted by title score at %d", i)
		}
	}
}

func TestMatchDeterministic(t *testing.T) {
	a := &types.DocumentRecord{DisplayTitle: "Dune", Authors: []string{"Frank Herbert"}}
	b := &types.DocumentRecord{DisplayTitle: "Dune Messiah", Authors: []string{"Frank Herbert"}}
	entries := []Entry{
		fakeEntry{title: "Dune", authors: []string{"Frank Herbert"}},
		fakeEntry{title: "Dune Messiah", authors: []string{"Frank Herbert"}},
		fakeEntry{title: "Children of Dune", authors: []string{"Frank Herbert"}},
	}

	first := Match(docs(a, b), entries, types.DefaultMatchConfig())
	for run := 0; run < 10; run++ {
		out := Match(docs(a, b), entries, types.DefaultMatchConfig())
		if len(out.Matched) != len(first.Matched) ||
			len(out.NeedsReview) != len(first.NeedsReview) ||
			len(out.New) != len(first.New) {
			t.Fatalf("run %d partition differs from first run", run)
		}
		for i := range out.Matched {
			if out.Matched[i].Document.Key() != first.Matched[i].Document.Key() {
				t.Fatalf("run %d matched order differs", run)
			}
		}
	}
}

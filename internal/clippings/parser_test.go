package clippings

import (
	"strings"
	"testing"
	"time"

	"clipcat/pkg/types"
)

const sep = "\n==========\n"

func block(lines ...string) string {
	return strings.Join(lines, "\n")
}

func singleDocument(t *testing.T, result Result) *types.DocumentRecord {
	t.Helper()
	if len(result.Documents) != 1 {
		t.Fatalf("parsed %d documents, want 1", len(result.Documents))
	}
	for _, doc := range result.Documents {
		return doc
	}
	return nil
}

func TestParseHighlightRoundTrip(t *testing.T) {
	raw := block(
		"Title (Author, First)",
		"- Your Highlight on page 23 | Location 342-344 | Added on Sunday, January 5, 2025 9:14:32 AM",
		"",
		"Sample text",
	) + sep

	result := Parse(raw)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	doc := singleDocument(t, result)
	if doc.DisplayTitle != "Title" {
		t.Errorf("DisplayTitle = %q, want %q", doc.DisplayTitle, "Title")
	}
	if len(doc.Authors) != 1 || doc.Authors[0] != "First Author" {
		t.Errorf("Authors = %v, want [First Author]", doc.Authors)
	}
	if len(doc.Highlights) != 1 {
		t.Fatalf("len(Highlights) = %d, want 1", len(doc.Highlights))
	}

	h := doc.Highlights[0]
	if h.Page != 23 || h.LocationStart != 342 || h.LocationEnd != 344 {
		t.Errorf("position = page %d loc %d-%d, want page 23 loc 342-344",
			h.Page, h.LocationStart, h.LocationEnd)
	}
	if !strings.Contains(h.Text, "Sample text") {
		t.Errorf("Text = %q, want it to contain %q", h.Text, "Sample text")
	}

	want := time.Date(2025, time.January, 5, 9, 14, 32, 0, time.UTC)
	if !h.AddedAt.Equal(want) {
		t.Errorf("AddedAt = %v, want %v", h.AddedAt, want)
	}
}

func TestParseBOMAndCRLF(t *testing.T) {
	raw := "\uFEFF" + strings.ReplaceAll(block(
		"Dune (Herbert, Frank)",
		"- Your Highlight on Location 100-101 | Added on Monday, March 3, 2025 8:00:00 PM",
		"Fear is the mind-killer.",
	)+sep, "\n", "\r\n")

	result := Parse(raw)
	doc := singleDocument(t, result)
	if doc.DisplayTitle != "Dune" {
		t.Errorf("DisplayTitle = %q, want Dune", doc.DisplayTitle)
	}
	if len(doc.Highlights) != 1 {
		t.Fatalf("len(Highlights) = %d, want 1", len(doc.Highlights))
	}
}

func TestParseBookmarkDropped(t *testing.T) {
	raw := block(
		"Dune (Herbert, Frank)",
		"- Your Bookmark on Location 500 | Added on Monday, March 3, 2025 8:00:00 PM",
	) + sep

	result := Parse(raw)
	if len(result.Documents) != 0 {
		t.Errorf("bookmark produced %d documents, want 0", len(result.Documents))
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
}

func TestParseSkipsMalformedAndRestricted(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"single line block", "Just a title" + sep},
		{"bad metadata line", block("Title (Author)", "not a metadata line", "text") + sep},
		{
			"restricted placeholder",
			block(
				"Title (Author)",
				"- Your Highlight on Location 10-12 | Added on Friday, May 2, 2025 1:00:00 PM",
				"<You have reached the clipping limit for this item>",
			) + sep,
		},
		{
			"empty body",
			block(
				"Title (Author)",
				"- Your Highlight on Location 10-12 | Added on Friday, May 2, 2025 1:00:00 PM",
			) + sep,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.raw)
			if len(result.Documents) != 0 {
				t.Errorf("parsed %d documents, want 0", len(result.Documents))
			}
			if result.Skipped != 1 {
				t.Errorf("Skipped = %d, want 1", result.Skipped)
			}
			if len(result.Errors) != 0 {
				t.Errorf("Errors = %v, want none", result.Errors)
			}
		})
	}
}

func TestParseEmptyTitleRecordedAsError(t *testing.T) {
	raw := block(
		"(Author, Some)",
		"- Your Highlight on Location 10-12 | Added on Friday, May 2, 2025 1:00:00 PM",
		"Body text",
	) + sep

	result := Parse(raw)
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", result.Errors)
	}
	if len(result.Documents) != 0 {
		t.Errorf("parsed %d documents, want 0", len(result.Documents))
	}
}

func TestParseMergesEntriesByTitleAndAuthor(t *testing.T) {
	raw := strings.Join([]string{
		block(
			"Dune (Herbert, Frank)",
			"- Your Highlight on Location 200-201 | Added on Monday, March 3, 2025 8:00:00 PM",
			"Second highlight",
		),
		block(
			"dune   (Herbert, Frank)",
			"- Your Highlight on Location 100-101 | Added on Monday, March 3, 2025 7:00:00 PM",
			"First highlight",
		),
		block(
			"Dune (Herbert, Frank)",
			"- Your Note on Location 150 | Added on Monday, March 3, 2025 7:30:00 PM",
			"A note between them",
		),
	}, sep) + sep

	result := Parse(raw)
	doc := singleDocument(t, result)

	if len(doc.Highlights) != 2 || len(doc.Notes) != 1 {
		t.Fatalf("got %d highlights, %d notes; want 2 and 1",
			len(doc.Highlights), len(doc.Notes))
	}

	// Highlights must come back location-sorted regardless of input order.
	if doc.Highlights[0].LocationStart != 100 || doc.Highlights[1].LocationStart != 200 {
		t.Errorf("highlight order = %d, %d; want 100, 200",
			doc.Highlights[0].LocationStart, doc.Highlights[1].LocationStart)
	}
}

func TestParseUnparseableDateYieldsZeroTime(t *testing.T) {
	raw := block(
		"Dune (Herbert, Frank)",
		"- Your Highlight on Location 100-101 | Added on someday, eventually",
		"Text body",
	) + sep

	result := Parse(raw)
	doc := singleDocument(t, result)
	if !doc.Highlights[0].AddedAt.IsZero() {
		t.Errorf("AddedAt = %v, want zero time", doc.Highlights[0].AddedAt)
	}
}

func TestParseMultipleAuthorsAndPassthrough(t *testing.T) {
	raw := block(
		"Good Omens (Pratchett, Terry;Gaiman, Neil;Anonymous)",
		"- Your Highlight on page 5 | Location 50-52 | Added on Sunday, January 5, 2025 9:14:32 AM",
		"Text body",
	) + sep

	result := Parse(raw)
	doc := singleDocument(t, result)

	want := []string{"Terry Pratchett", "Neil Gaiman", "Anonymous"}
	if len(doc.Authors) != len(want) {
		t.Fatalf("Authors = %v, want %v", doc.Authors, want)
	}
	for i := range want {
		if doc.Authors[i] != want[i] {
			t.Errorf("Authors[%d] = %q, want %q", i, doc.Authors[i], want[i])
		}
	}
}

func TestParseSubtitleParenthesesStayInTitle(t *testing.T) {
	raw := block(
		"The Martian (Special Edition) (Weir, Andy)",
		"- Your Highlight on Location 20-21 | Added on Sunday, January 5, 2025 9:14:32 AM",
		"Text body",
	) + sep

	result := Parse(raw)
	doc := singleDocument(t, result)
	if doc.DisplayTitle != "The Martian (Special Edition)" {
		t.Errorf("DisplayTitle = %q, want %q", doc.DisplayTitle, "The Martian (Special Edition)")
	}
	if len(doc.Authors) != 1 || doc.Authors[0] != "Andy Weir" {
		t.Errorf("Authors = %v, want [Andy Weir]", doc.Authors)
	}
}

func TestParseTitleWidthFolding(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		// Full-width punctuation folds to ASCII but katakana keeps its
		// canonical full-width form.
		{"full-width colon", "プログラマー：実践ガイド", "プログラマー:実践ガイド"},
		// Unvoiced half-width kana folds back to full-width.
		{"half-width kana", "ﾌﾛｸﾗﾏｰ:実践ｶｲﾄ", "フロクラマー:実践カイト"},
		{"latin untouched", "The Martian", "The Martian"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := block(
				tt.title,
				"- Your Highlight on Location 10-11 | Added on Sunday, January 5, 2025 9:14:32 AM",
				"Text body",
			) + sep

			result := Parse(raw)
			doc := singleDocument(t, result)
			if doc.DisplayTitle != tt.want {
				t.Errorf("DisplayTitle = %q, want %q", doc.DisplayTitle, tt.want)
			}
		})
	}
}

func TestParseEqualsRunInsideBodyDoesNotSplit(t *testing.T) {
	raw := block(
		"Dune (Herbert, Frank)",
		"- Your Highlight on Location 100-101 | Added on Monday, March 3, 2025 8:00:00 PM",
		"Heading ========== still the same highlight",
	) + sep

	result := Parse(raw)
	if result.Skipped != 0 {
		t.Fatalf("Skipped = %d, want 0", result.Skipped)
	}
	doc := singleDocument(t, result)
	if len(doc.Highlights) != 1 {
		t.Fatalf("len(Highlights) = %d, want 1", len(doc.Highlights))
	}
	if !strings.Contains(doc.Highlights[0].Text, "still the same highlight") {
		t.Errorf("Text = %q, want full body retained", doc.Highlights[0].Text)
	}
}

func TestParseOldFirmwareLocOnly(t *testing.T) {
	raw := block(
		"Neuromancer (Gibson, William)",
		"- Highlight Loc. 320-34 | Added on Tuesday, February 4, 2025 10:05 PM",
		"The sky above the port",
	) + sep

	result := Parse(raw)
	doc := singleDocument(t, result)
	h := doc.Highlights[0]
	if h.LocationStart != 320 || h.LocationEnd != 34 {
		t.Errorf("loc = %d-%d, want 320-34", h.LocationStart, h.LocationEnd)
	}
	want := time.Date(2025, time.February, 4, 22, 5, 0, 0, time.UTC)
	if !h.AddedAt.Equal(want) {
		t.Errorf("AddedAt = %v, want %v", h.AddedAt, want)
	}
}

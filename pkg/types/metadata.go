// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Provenance identifies which data source produced a BookMetadata record.
type Provenance string

const (
	ProvenanceGoogleBooks Provenance = "google_books"
	ProvenanceOpenLibrary Provenance = "openlibrary"

	// ProvenanceOrigin marks fallback records built solely from the
	// document's own title and authors when every lookup attempt failed.
	ProvenanceOrigin Provenance = "origin"
)

// BookMetadata holds bibliographic data resolved for a document. Produced
// fresh per lookup; never cached across runs.
type BookMetadata struct {
	// Title is the resolved title, or the document's own title for
	// origin-provenance fallbacks.
	Title string `json:"title" yaml:"title"`

	// Authors lists the resolved author names in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Publisher is the publisher name, empty when the source had none.
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// Year is the publication year as a string (sources disagree on date
	// granularity, so no parsing is attempted).
	Year string `json:"year,omitempty" yaml:"year,omitempty"`

	// ISBN is the ISBN-13 when the source offered one, otherwise ISBN-10.
	ISBN string `json:"isbn,omitempty" yaml:"isbn,omitempty"`

	// Language is the source's language code (e.g. "en").
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// NumPages is the page count, 0 when unknown.
	NumPages int `json:"num_pages,omitempty" yaml:"num_pages,omitempty"`

	// Provenance identifies the producing source.
	Provenance Provenance `json:"provenance" yaml:"provenance"`

	// Confidence is the title similarity between the query and the
	// accepted result, in [0,1]. 0 for origin fallbacks.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

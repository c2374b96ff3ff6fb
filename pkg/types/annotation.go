// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the clipcat pipeline:
// parsed annotations, grouped document records, and resolved book metadata.
package types

import (
	"sort"
	"strings"
	"time"
)

// EntryKind classifies a clipping entry.
type EntryKind string

const (
	KindHighlight EntryKind = "highlight"
	KindNote      EntryKind = "note"
	KindBookmark  EntryKind = "bookmark"
)

// AnnotationEntry is one highlight or note parsed from a clippings export.
// Bookmarks are recognized during parsing but never materialized.
type AnnotationEntry struct {
	// Kind is highlight or note.
	Kind EntryKind `json:"kind" yaml:"kind"`

	// Page is the device page number, 0 when absent.
	Page int `json:"page,omitempty" yaml:"page,omitempty"`

	// LocationStart and LocationEnd are the device location range, 0 when absent.
	LocationStart int `json:"location_start,omitempty" yaml:"location_start,omitempty"`
	LocationEnd   int `json:"location_end,omitempty" yaml:"location_end,omitempty"`

	// AddedAt is the timestamp from the "Added on" segment. Zero when the
	// date was missing or unparseable.
	AddedAt time.Time `json:"added_at,omitempty" yaml:"added_at,omitempty"`

	// Text is the annotation body with internal whitespace collapsed.
	Text string `json:"text" yaml:"text"`
}

// SortLocation returns the position used to order annotations: the location
// start when present, the page as a fallback, 0 otherwise.
func (e AnnotationEntry) SortLocation() int {
	if e.LocationStart > 0 {
		return e.LocationStart
	}
	return e.Page
}

// DocumentRecord aggregates the annotations of one source document. Multiple
// raw entries sharing the same identity key merge into a single record.
type DocumentRecord struct {
	// DisplayTitle is the normalized title (trimmed, collapsed whitespace,
	// full-width punctuation narrowed).
	DisplayTitle string `json:"display_title" yaml:"display_title"`

	// RawTitle is the title line as found in the export.
	RawTitle string `json:"raw_title" yaml:"raw_title"`

	// Authors lists the document authors normalized to "First Last" order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Highlights and Notes hold the document's annotations, each list kept
	// sorted by location ascending.
	Highlights []AnnotationEntry `json:"highlights,omitempty" yaml:"highlights,omitempty"`
	Notes      []AnnotationEntry `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Key returns the identity used to merge entries and to fingerprint written
// artifacts: lowercased collapsed title, "::", then the sorted lowercased
// author list joined with commas.
func (d *DocumentRecord) Key() string {
	title := strings.ToLower(strings.Join(strings.Fields(d.DisplayTitle), " "))

	authors := make([]string, len(d.Authors))
	for i, a := range d.Authors {
		authors[i] = strings.ToLower(strings.TrimSpace(a))
	}
	sort.Strings(authors)

	return title + "::" + strings.Join(authors, ",")
}

// SortAnnotations orders the highlight and note lists by location ascending.
// Entries at the same location keep their insertion order.
func (d *DocumentRecord) SortAnnotations() {
	sortByLocation(d.Highlights)
	sortByLocation(d.Notes)
}

// MergedAnnotations returns highlights and notes combined into a single
// location-sorted list. This is the canonical order used for fingerprinting
// and artifact rendering.
func (d *DocumentRecord) MergedAnnotations() []AnnotationEntry {
	merged := make([]AnnotationEntry, 0, len(d.Highlights)+len(d.Notes))
	merged = append(merged, d.Highlights...)
	merged = append(merged, d.Notes...)
	sortByLocation(merged)
	return merged
}

// ClipCount returns the total number of annotations in the record.
func (d *DocumentRecord) ClipCount() int {
	return len(d.Highlights) + len(d.Notes)
}

func sortByLocation(entries []AnnotationEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SortLocation() < entries[j].SortLocation()
	})
}

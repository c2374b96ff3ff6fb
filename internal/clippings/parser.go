// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package clippings parses a "My Clippings.txt" export into per-document
// annotation records. The format is loosely delimited and inconsistent
// across device firmware versions, so the parser is tolerant: malformed
// blocks are skipped, unparseable dates become zero timestamps, and only
// genuinely surprising block shapes are reported as errors.
package clippings

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"

	"clipcat/pkg/types"
)

// separator is the literal line between clipping blocks.
const separator = "=========="

// titleAuthorPattern splits "Title (Author; Author)" on the last
// parenthetical. The greedy title group leaves earlier parentheticals
// (subtitles, series markers) inside the title.
var titleAuthorPattern = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)$`)

// metadataPattern recognizes the entry kind on the metadata line. The rest
// of the line is parsed segment by segment.
var metadataPattern = regexp.MustCompile(`(?i)^-\s*(?:your\s+)?(highlight|note|bookmark)\b`)

// pagePattern and locationPattern pull the optional position fields from
// the metadata line. "Loc." appears on older firmware instead of "Location".
var (
	pagePattern     = regexp.MustCompile(`(?i)\bpage\s+([0-9]+)`)
	locationPattern = regexp.MustCompile(`(?i)\b(?:location|loc\.?)\s+([0-9]+)(?:\s*-\s*([0-9]+))?`)
	addedOnPattern  = regexp.MustCompile(`(?i)\badded\s+on\s+(.+)$`)
)

// restrictedPattern matches the placeholder the device writes once a
// publisher's clipping limit is reached. Such entries carry no usable text.
var restrictedPattern = regexp.MustCompile(`(?i)you have reached the clipping limit for this item`)

// dateLayouts are tried in order after stripping the weekday prefix.
var dateLayouts = []string{
	"January 2, 2006 3:04:05 PM",
	"January 2, 2006 3:04 PM",
}

// Result holds the parsed documents plus the skip and error accounting.
type Result struct {
	// Documents maps identity key to the merged record for that document.
	Documents map[string]*types.DocumentRecord

	// Skipped counts bookmarks, malformed blocks, and restricted or
	// empty-body placeholders.
	Skipped int

	// Errors lists blocks whose shape was recognized but whose contents
	// violated a structural expectation. Parsing always continues past them.
	Errors []string
}

// Parse splits raw export text into blocks and accumulates per-document
// records. It never fails: every problem is absorbed into Skipped or Errors.
func Parse(raw string) Result {
	result := Result{Documents: make(map[string]*types.DocumentRecord)}

	raw = strings.TrimPrefix(raw, "\uFEFF")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	for _, block := range splitBlocks(raw) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		parseBlock(block, &result)
	}

	for _, doc := range result.Documents {
		doc.SortAnnotations()
	}
	return result
}

// splitBlocks cuts raw text at lines that consist solely of the separator.
// A run of "=" inside a highlight body never terminates a block.
func splitBlocks(raw string) []string {
	var blocks []string
	var current []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == separator {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
			continue
		}
		current = append(current, line)
	}
	return append(blocks, strings.Join(current, "\n"))
}

// parseBlock handles one clipping block, updating the result in place.
func parseBlock(block string, result *Result) {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) < 2 {
		result.Skipped++
		return
	}

	meta, ok := parseMetadataLine(lines[1])
	if !ok {
		result.Skipped++
		return
	}
	if meta.Kind == types.KindBookmark {
		result.Skipped++
		return
	}

	rawTitle := lines[0]
	title, authors := splitTitleAuthors(rawTitle)
	if title == "" {
		result.Errors = append(result.Errors, fmt.Sprintf("empty title in block %q", snippet(block)))
		return
	}

	body := strings.TrimSpace(strings.Join(lines[2:], " "))
	if body == "" || restrictedPattern.MatchString(body) {
		result.Skipped++
		return
	}

	entry := types.AnnotationEntry{
		Kind:          meta.Kind,
		Page:          meta.Page,
		LocationStart: meta.LocationStart,
		LocationEnd:   meta.LocationEnd,
		AddedAt:       meta.AddedAt,
		Text:          body,
	}

	doc := &types.DocumentRecord{
		DisplayTitle: title,
		RawTitle:     rawTitle,
		Authors:      authors,
	}
	key := doc.Key()
	if existing, found := result.Documents[key]; found {
		doc = existing
	} else {
		result.Documents[key] = doc
	}

	switch entry.Kind {
	case types.KindHighlight:
		doc.Highlights = append(doc.Highlights, entry)
	case types.KindNote:
		doc.Notes = append(doc.Notes, entry)
	}
}

// entryMeta is the parsed form of a metadata line.
type entryMeta struct {
	Kind          types.EntryKind
	Page          int
	LocationStart int
	LocationEnd   int
	AddedAt       time.Time
}

// parseMetadataLine extracts kind, page, location range, and timestamp.
// A line that does not carry a recognizable entry kind fails the block.
func parseMetadataLine(line string) (entryMeta, bool) {
	m := metadataPattern.FindStringSubmatch(line)
	if m == nil {
		return entryMeta{}, false
	}

	meta := entryMeta{Kind: types.EntryKind(strings.ToLower(m[1]))}

	if pm := pagePattern.FindStringSubmatch(line); pm != nil {
		meta.Page, _ = strconv.Atoi(pm[1])
	}
	if lm := locationPattern.FindStringSubmatch(line); lm != nil {
		meta.LocationStart, _ = strconv.Atoi(lm[1])
		if lm[2] != "" {
			meta.LocationEnd, _ = strconv.Atoi(lm[2])
		}
	}
	if am := addedOnPattern.FindStringSubmatch(line); am != nil {
		meta.AddedAt = parseAddedDate(am[1])
	}
	return meta, true
}

// parseAddedDate parses "<Weekday>, <Month> <Day>, <Year> <Time> <AM|PM>".
// The weekday prefix is stripped before parsing; an unparseable remainder
// yields a zero time rather than an error.
func parseAddedDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, ","); idx >= 0 {
		s = strings.TrimSpace(s[idx+1:])
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// splitTitleAuthors separates the optional trailing author parenthetical
// from the title line and normalizes both parts.
func splitTitleAuthors(line string) (string, []string) {
	title := line
	var authors []string

	if m := titleAuthorPattern.FindStringSubmatch(line); m != nil {
		title = m[1]
		for _, piece := range strings.Split(m[2], ";") {
			if name := normalizeAuthor(piece); name != "" {
				authors = append(authors, name)
			}
		}
	}
	return normalizeTitle(title), authors
}

// normalizeTitle trims, collapses internal whitespace, and folds characters
// to canonical width: full-width punctuation such as "：" becomes ASCII
// while half-width katakana is restored to its full-width form, so CJK
// titles keep their canonical spelling.
func normalizeTitle(title string) string {
	title = width.Fold.String(title)
	return strings.Join(strings.Fields(title), " ")
}

// normalizeAuthor reorders "Last, First" to "First Last". Names without a
// comma pass through unchanged.
func normalizeAuthor(name string) string {
	name = strings.TrimSpace(name)
	last, first, found := strings.Cut(name, ",")
	if !found {
		return name
	}
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	if first == "" {
		return last
	}
	return first + " " + last
}

// snippet truncates a block for error reporting.
func snippet(block string) string {
	const max = 60
	block = strings.Join(strings.Fields(block), " ")
	if len(block) > max {
		return block[:max] + "..."
	}
	return block
}

// SortedKeys returns the document keys in deterministic order.
func (r Result) SortedKeys() []string {
	keys := make([]string, 0, len(r.Documents))
	for k := range r.Documents {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortedDocuments returns the parsed documents ordered by identity key.
func (r Result) SortedDocuments() []*types.DocumentRecord {
	docs := make([]*types.DocumentRecord, 0, len(r.Documents))
	for _, k := range r.SortedKeys() {
		docs = append(docs, r.Documents[k])
	}
	return docs
}

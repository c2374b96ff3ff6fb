// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"clipcat/pkg/types"
)

// markerVersion is the artifact metadata schema version. Bump it when the
// marker layout changes so older artifacts can be migrated explicitly.
const markerVersion = 1

// legacyTag identified artifacts written before the structured marker
// existed. Such artifacts carry no recoverable fingerprint and are always
// treated as changed.
const legacyTag = "#clipcat-import"

// markerPattern recovers the fingerprint marker from an artifact body.
var markerPattern = regexp.MustCompile(
	`<div class="clipcat-fingerprint" data-version="([0-9]+)" data-clips="([0-9]+)" data-hash="([0-9a-f]+)" data-key="([^"]*)"></div>`)

// renderMarker emits the machine-readable fingerprint element placed at
// the top of every artifact.
func renderMarker(fp Fingerprint) string {
	return fmt.Sprintf(
		`<div class="clipcat-fingerprint" data-version="%d" data-clips="%d" data-hash="%s" data-key="%s"></div>`,
		markerVersion, fp.ClipCount, fp.ContentHash, html.EscapeString(fp.Key))
}

// parseMarker recovers a fingerprint from an artifact body. ok is false
// when the body carries no marker of the current schema version.
func parseMarker(content string) (Fingerprint, bool) {
	m := markerPattern.FindStringSubmatch(content)
	if m == nil {
		return Fingerprint{}, false
	}
	version, _ := strconv.Atoi(m[1])
	if version != markerVersion {
		return Fingerprint{}, false
	}
	clips, _ := strconv.Atoi(m[2])
	return Fingerprint{
		ClipCount:   clips,
		ContentHash: m[3],
		Key:         html.UnescapeString(m[4]),
	}, true
}

// isImportArtifact reports whether a note was written by this system,
// either a current-version marker or the legacy tag.
func isImportArtifact(content string) bool {
	return markerPattern.MatchString(content) || strings.Contains(content, legacyTag)
}

// renderArtifact builds the full artifact body: the fingerprint marker, a
// heading, an italic summary line, then every annotation in location order
// as a quoted block (highlight) or labeled paragraph (note), each followed
// by a location/date caption. All free text is escaped.
func renderArtifact(doc *types.DocumentRecord, fp Fingerprint, importedAt time.Time) string {
	var b strings.Builder

	b.WriteString(renderMarker(fp))
	b.WriteString("\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(doc.DisplayTitle))
	fmt.Fprintf(&b, "<p><em>%d highlights, %d notes &mdash; imported %s</em></p>\n",
		len(doc.Highlights), len(doc.Notes), importedAt.Format("January 2, 2006"))

	for _, entry := range doc.MergedAnnotations() {
		switch entry.Kind {
		case types.KindHighlight:
			fmt.Fprintf(&b, "<blockquote>%s</blockquote>\n", html.EscapeString(entry.Text))
		case types.KindNote:
			fmt.Fprintf(&b, "<p><b>Note:</b> %s</p>\n", html.EscapeString(entry.Text))
		}
		fmt.Fprintf(&b, "<p><small>%s</small></p>\n", html.EscapeString(caption(entry)))
	}

	return b.String()
}

// caption renders the location/date line under one annotation.
func caption(entry types.AnnotationEntry) string {
	var parts []string
	if entry.Page > 0 {
		parts = append(parts, fmt.Sprintf("Page %d", entry.Page))
	}
	switch {
	case entry.LocationStart > 0 && entry.LocationEnd > 0:
		parts = append(parts, fmt.Sprintf("Location %d-%d", entry.LocationStart, entry.LocationEnd))
	case entry.LocationStart > 0:
		parts = append(parts, fmt.Sprintf("Location %d", entry.LocationStart))
	}
	if !entry.AddedAt.IsZero() {
		parts = append(parts, entry.AddedAt.Format("January 2, 2006 3:04 PM"))
	}
	if len(parts) == 0 {
		return "Location unknown"
	}
	return strings.Join(parts, " · ")
}

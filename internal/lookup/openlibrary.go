// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"clipcat/internal/httputil"
	"clipcat/pkg/types"
)

// openLibraryBase is the Open Library search endpoint. Declared as a var
// so tests can substitute an httptest server.
var openLibraryBase = "https://openlibrary.org/search.json"

// OpenLibrarySource queries the Open Library search API.
type OpenLibrarySource struct {
	Client *http.Client
}

// NewOpenLibrarySource builds a client with the configured timeout.
func NewOpenLibrarySource(cfg types.LookupConfig) *OpenLibrarySource {
	return &OpenLibrarySource{Client: &http.Client{Timeout: cfg.Timeout}}
}

// Name returns the source identifier.
func (s *OpenLibrarySource) Name() string { return "openlibrary" }

// openLibraryResponse mirrors the fields of the search payload we read.
type openLibraryResponse struct {
	Docs []struct {
		Title            string   `json:"title"`
		AuthorName       []string `json:"author_name"`
		Publisher        []string `json:"publisher"`
		FirstPublishYear int      `json:"first_publish_year"`
		ISBN             []string `json:"isbn"`
		Language         []string `json:"language"`
		MedianPages      int      `json:"number_of_pages_median"`
	} `json:"docs"`
}

// Search queries the search API and extracts the first doc with a title.
func (s *OpenLibrarySource) Search(ctx context.Context, title, author string, cfg types.LookupConfig) (*types.BookMetadata, error) {
	params := url.Values{
		"title": {title},
		"limit": {"5"},
	}
	if author != "" {
		params.Set("author", author)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openLibraryBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Open Library request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Open Library returned HTTP %d", resp.StatusCode)
	}

	var olr openLibraryResponse
	if err := json.NewDecoder(resp.Body).Decode(&olr); err != nil {
		return nil, fmt.Errorf("parsing Open Library response: %w", err)
	}

	for _, doc := range olr.Docs {
		if doc.Title == "" {
			continue
		}

		md := &types.BookMetadata{
			Title:      doc.Title,
			Authors:    doc.AuthorName,
			NumPages:   doc.MedianPages,
			ISBN:       pickISBN(doc.ISBN),
			Provenance: types.ProvenanceOpenLibrary,
		}
		if len(doc.Publisher) > 0 {
			md.Publisher = doc.Publisher[0]
		}
		if doc.FirstPublishYear > 0 {
			md.Year = strconv.Itoa(doc.FirstPublishYear)
		}
		if len(doc.Language) > 0 {
			md.Language = doc.Language[0]
		}
		return md, nil
	}
	return nil, nil
}

// pickISBN prefers the longer ISBN-13 form over ISBN-10.
func pickISBN(isbns []string) string {
	best := ""
	for _, isbn := range isbns {
		if len(isbn) == 13 {
			return isbn
		}
		if best == "" {
			best = isbn
		}
	}
	return best
}

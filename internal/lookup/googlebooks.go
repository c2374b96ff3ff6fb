// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"clipcat/internal/httputil"
	"clipcat/pkg/types"
)

// googleBooksBase is the Google Books volumes endpoint. Declared as a var
// so tests can substitute an httptest server.
var googleBooksBase = "https://www.googleapis.com/books/v1/volumes"

// GoogleBooksSource queries the Google Books volumes API.
type GoogleBooksSource struct {
	Client *http.Client
}

// NewGoogleBooksSource builds a client with the configured timeout.
func NewGoogleBooksSource(cfg types.LookupConfig) *GoogleBooksSource {
	return &GoogleBooksSource{Client: &http.Client{Timeout: cfg.Timeout}}
}

// Name returns the source identifier.
func (s *GoogleBooksSource) Name() string { return "google_books" }

// googleVolumesResponse mirrors the fields of the volumes payload we read.
type googleVolumesResponse struct {
	Items []struct {
		VolumeInfo struct {
			Title               string   `json:"title"`
			Subtitle            string   `json:"subtitle"`
			Authors             []string `json:"authors"`
			Publisher           string   `json:"publisher"`
			PublishedDate       string   `json:"publishedDate"`
			PageCount           int      `json:"pageCount"`
			Language            string   `json:"language"`
			IndustryIdentifiers []struct {
				Type       string `json:"type"`
				Identifier string `json:"identifier"`
			} `json:"industryIdentifiers"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Search queries the volumes API with intitle/inauthor terms and extracts
// the first result that carries a title.
func (s *GoogleBooksSource) Search(ctx context.Context, title, author string, cfg types.LookupConfig) (*types.BookMetadata, error) {
	terms := []string{fmt.Sprintf("intitle:%q", title)}
	if author != "" {
		terms = append(terms, fmt.Sprintf("inauthor:%q", author))
	}

	params := url.Values{
		"q":          {strings.Join(terms, " ")},
		"maxResults": {"5"},
	}
	if cfg.GoogleBooksAPIKey != "" {
		params.Set("key", cfg.GoogleBooksAPIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleBooksBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Google Books request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google Books returned HTTP %d", resp.StatusCode)
	}

	var gvr googleVolumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&gvr); err != nil {
		return nil, fmt.Errorf("parsing Google Books response: %w", err)
	}

	for _, item := range gvr.Items {
		vi := item.VolumeInfo
		if vi.Title == "" {
			continue
		}

		fullTitle := vi.Title
		if vi.Subtitle != "" {
			fullTitle = vi.Title + ": " + vi.Subtitle
		}

		md := &types.BookMetadata{
			Title:      fullTitle,
			Authors:    vi.Authors,
			Publisher:  vi.Publisher,
			Year:       yearOf(vi.PublishedDate),
			Language:   vi.Language,
			NumPages:   vi.PageCount,
			Provenance: types.ProvenanceGoogleBooks,
		}

		// Prefer the longer-form identifier.
		for _, id := range vi.IndustryIdentifiers {
			switch id.Type {
			case "ISBN_13":
				md.ISBN = id.Identifier
			case "ISBN_10":
				if md.ISBN == "" {
					md.ISBN = id.Identifier
				}
			}
		}
		return md, nil
	}
	return nil, nil
}

// yearOf extracts the leading year from a published date that may be
// "2006", "2006-01", or "2006-01-02".
func yearOf(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return date
}

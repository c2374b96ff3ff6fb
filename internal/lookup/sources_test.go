package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"clipcat/pkg/types"
)

func TestGoogleBooksExtraction(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{"volumeInfo": {}},
				{"volumeInfo": {
					"title": "The Pragmatic Programmer",
					"subtitle": "Your Journey to Mastery",
					"authors": ["David Thomas", "Andrew Hunt"],
					"publisher": "Addison-Wesley",
					"publishedDate": "2019-09-13",
					"pageCount": 352,
					"language": "en",
					"industryIdentifiers": [
						{"type": "ISBN_10", "identifier": "0135957052"},
						{"type": "ISBN_13", "identifier": "9780135957059"}
					]
				}}
			]
		}`))
	}))
	defer ts.Close()

	oldBase := googleBooksBase
	googleBooksBase = ts.URL
	defer func() { googleBooksBase = oldBase }()

	cfg := types.DefaultLookupConfig()
	src := NewGoogleBooksSource(cfg)
	md, err := src.Search(context.Background(), "The Pragmatic Programmer", "David Thomas", cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if md == nil {
		t.Fatal("Search returned nil metadata")
	}

	if md.Title != "The Pragmatic Programmer: Your Journey to Mastery" {
		t.Errorf("Title = %q", md.Title)
	}
	if md.ISBN != "9780135957059" {
		t.Errorf("ISBN = %q, want the ISBN-13", md.ISBN)
	}
	if md.Year != "2019" {
		t.Errorf("Year = %q, want 2019", md.Year)
	}
	if md.NumPages != 352 || md.Publisher != "Addison-Wesley" || md.Language != "en" {
		t.Errorf("pages/publisher/language = %d/%q/%q", md.NumPages, md.Publisher, md.Language)
	}
	if md.Provenance != types.ProvenanceGoogleBooks {
		t.Errorf("Provenance = %q", md.Provenance)
	}

	if gotQuery != `intitle:"The Pragmatic Programmer" inauthor:"David Thomas"` {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestGoogleBooksNoResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"items": []}`))
	}))
	defer ts.Close()

	oldBase := googleBooksBase
	googleBooksBase = ts.URL
	defer func() { googleBooksBase = oldBase }()

	cfg := types.DefaultLookupConfig()
	src := NewGoogleBooksSource(cfg)
	md, err := src.Search(context.Background(), "No Such Book", "", cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if md != nil {
		t.Errorf("md = %+v, want nil", md)
	}
}

func TestGoogleBooksServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	oldBase := googleBooksBase
	googleBooksBase = ts.URL
	defer func() { googleBooksBase = oldBase }()

	cfg := types.DefaultLookupConfig()
	src := NewGoogleBooksSource(cfg)
	if _, err := src.Search(context.Background(), "Anything", "", cfg); err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}

func TestOpenLibraryExtraction(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("title") != "Dune" {
			t.Errorf("title param = %q", r.URL.Query().Get("title"))
		}
		if r.URL.Query().Get("author") != "Frank Herbert" {
			t.Errorf("author param = %q", r.URL.Query().Get("author"))
		}
		w.Write([]byte(`{
			"docs": [{
				"title": "Dune",
				"author_name": ["Frank Herbert"],
				"publisher": ["Chilton Books", "Ace"],
				"first_publish_year": 1965,
				"isbn": ["0441013597", "9780441013593"],
				"language": ["eng"],
				"number_of_pages_median": 604
			}]
		}`))
	}))
	defer ts.Close()

	oldBase := openLibraryBase
	openLibraryBase = ts.URL
	defer func() { openLibraryBase = oldBase }()

	cfg := types.DefaultLookupConfig()
	src := NewOpenLibrarySource(cfg)
	md, err := src.Search(context.Background(), "Dune", "Frank Herbert", cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if md == nil {
		t.Fatal("Search returned nil metadata")
	}

	if md.Title != "Dune" || md.Year != "1965" || md.NumPages != 604 {
		t.Errorf("title/year/pages = %q/%q/%d", md.Title, md.Year, md.NumPages)
	}
	if md.ISBN != "9780441013593" {
		t.Errorf("ISBN = %q, want the 13-digit form", md.ISBN)
	}
	if md.Publisher != "Chilton Books" {
		t.Errorf("Publisher = %q", md.Publisher)
	}
	if md.Provenance != types.ProvenanceOpenLibrary {
		t.Errorf("Provenance = %q", md.Provenance)
	}
}

func TestPickISBN(t *testing.T) {
	tests := []struct {
		name  string
		isbns []string
		want  string
	}{
		{"empty", nil, ""},
		{"only 10", []string{"0441013597"}, "0441013597"},
		{"prefers 13", []string{"0441013597", "9780441013593"}, "9780441013593"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickISBN(tt.isbns); got != tt.want {
				t.Errorf("pickISBN(%v) = %q, want %q", tt.isbns, got, tt.want)
			}
		})
	}
}

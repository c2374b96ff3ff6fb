package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "clipcat/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// MatchConfig holds the matcher's threshold floors. The defaults were tuned
// against a single personal library; they are configuration, not law.
type MatchConfig struct {
	// CandidateFloor is the minimum title score for a catalog item to be
	// considered a candidate at all (default 0.60).
	CandidateFloor float64 `json:"candidate_floor" yaml:"candidate_floor"`

	// ConfidentFloor is the minimum title score for accepting the top
	// candidate without review (default 0.85).
	ConfidentFloor float64 `json:"confident_floor" yaml:"confident_floor"`

	// AuthorFloor is the minimum author score required alongside a
	// confident title score, when the document carries author data
	// (default 0.50).
	AuthorFloor float64 `json:"author_floor" yaml:"author_floor"`

	// MaxReviewCandidates caps the candidate list attached to a
	// needs-review outcome (default 5).
	MaxReviewCandidates int `json:"max_review_candidates" yaml:"max_review_candidates"`
}

// DefaultMatchConfig returns the tuned threshold defaults.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		CandidateFloor:      0.60,
		ConfidentFloor:      0.85,
		AuthorFloor:         0.50,
		MaxReviewCandidates: 5,
	}
}

// LookupConfig holds settings for the metadata resolver.
type LookupConfig struct {
	HTTPConfig `yaml:",inline"`

	// EnableGoogleBooks controls whether the Google Books source is tried.
	EnableGoogleBooks bool `json:"enable_google_books" yaml:"enable_google_books"`

	// EnableOpenLibrary controls whether the Open Library source is tried.
	EnableOpenLibrary bool `json:"enable_open_library" yaml:"enable_open_library"`

	// GoogleBooksAPIKey is an optional API key for higher rate limits.
	GoogleBooksAPIKey string `json:"google_books_api_key,omitempty" yaml:"google_books_api_key,omitempty"`

	// AcceptFloor is the minimum title similarity between query and result
	// for a lookup attempt to be accepted (default 0.55).
	AcceptFloor float64 `json:"accept_floor" yaml:"accept_floor"`

	// ReviewFloor is the confidence below which a resolved record is
	// flagged for review (default 0.75).
	ReviewFloor float64 `json:"review_floor" yaml:"review_floor"`

	// AttemptDelay is the pacing delay between consecutive network
	// attempts, respecting third-party rate limits (default 1s).
	AttemptDelay time.Duration `json:"attempt_delay" yaml:"attempt_delay"`
}

// DefaultLookupConfig returns the resolver defaults with both sources enabled.
func DefaultLookupConfig() LookupConfig {
	return LookupConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   15 * time.Second,
			UserAgent: "clipcat/0.1",
		},
		EnableGoogleBooks: true,
		EnableOpenLibrary: true,
		AcceptFloor:       0.55,
		ReviewFloor:       0.75,
		AttemptDelay:      time.Second,
	}
}

// ImportConfig holds settings for the import stage.
type ImportConfig struct {
	// CollectionName names the catalog collection all imported items are
	// added to (default "Kindle Imports").
	CollectionName string `json:"collection_name" yaml:"collection_name"`

	// CatalogPath is the SQLite catalog database path (default "catalog.db").
	CatalogPath string `json:"catalog_path" yaml:"catalog_path"`
}

// DefaultImportConfig returns the import stage defaults.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		CollectionName: "Kindle Imports",
		CatalogPath:    "catalog.db",
	}
}

// Config groups all stage configurations for the pipeline.
type Config struct {
	Match  MatchConfig  `json:"match" yaml:"match"`
	Lookup LookupConfig `json:"lookup" yaml:"lookup"`
	Import ImportConfig `json:"import" yaml:"import"`
}

// DefaultConfig returns the full default configuration.
func DefaultConfig() Config {
	return Config{
		Match:  DefaultMatchConfig(),
		Lookup: DefaultLookupConfig(),
		Import: DefaultImportConfig(),
	}
}

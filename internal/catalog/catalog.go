// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog defines the storage collaborator the pipeline writes to,
// plus a SQLite-backed implementation and an in-memory fake. The core
// never reads ambient globals: every catalog access goes through the
// Catalog interface passed in by the caller, so tests substitute the
// in-memory implementation freely.
package catalog

import "context"

// Item is the view of a catalog record exposed across the collaborator
// boundary. Implementations adapt their own row shapes to it.
type Item interface {
	ID() string
	Title() string
	Authors() []string
}

// Note is a derived artifact attached to a catalog item.
type Note struct {
	ID      string
	Content string
}

// NewRecord carries the fields for creating a catalog record from
// resolved metadata.
type NewRecord struct {
	Title     string
	Authors   []string
	Publisher string
	Year      string
	ISBN      string
	Language  string
	NumPages  int
}

// Catalog is the narrow interface the matcher reads from and the importer
// writes through. Only the importer calls the mutating operations.
type Catalog interface {
	// ListItems returns a snapshot of all catalog records.
	ListItems(ctx context.Context) ([]Item, error)

	// Notes returns the notes attached to an item.
	Notes(ctx context.Context, itemID string) ([]Note, error)

	// CreateNote attaches a note to an item and returns its id.
	CreateNote(ctx context.Context, itemID, content string) (string, error)

	// DeleteNote removes a note by id.
	DeleteNote(ctx context.Context, noteID string) error

	// CreateItem creates a new catalog record and returns its id.
	CreateItem(ctx context.Context, rec NewRecord) (string, error)

	// GetOrCreateCollection resolves a collection by name, creating it on
	// first use, and returns its id.
	GetOrCreateCollection(ctx context.Context, name string) (string, error)

	// AddToCollection makes an item a member of a collection. Adding an
	// existing member is a no-op.
	AddToCollection(ctx context.Context, itemID, collectionID string) error
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store is a SQLite-backed catalog.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database at path and bootstraps the
// schema if it does not exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			authors TEXT NOT NULL DEFAULT '[]',
			publisher TEXT,
			year TEXT,
			isbn TEXT,
			language TEXT,
			num_pages INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS collections (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS collection_items (
			collection_id TEXT NOT NULL REFERENCES collections(id),
			item_id TEXT NOT NULL REFERENCES items(id),
			PRIMARY KEY (collection_id, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			item_id TEXT NOT NULL REFERENCES items(id),
			content TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_item_id ON notes(item_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// storeItem adapts an items row to the Item interface.
type storeItem struct {
	id      string
	title   string
	authors []string
}

func (i storeItem) ID() string        { return i.id }
func (i storeItem) Title() string     { return i.title }
func (i storeItem) Authors() []string { return i.authors }

// ListItems returns all catalog records ordered by title.
func (s *Store) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, authors FROM items ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it storeItem
		var authorsJSON string
		if err := rows.Scan(&it.id, &it.title, &authorsJSON); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		if err := json.Unmarshal([]byte(authorsJSON), &it.authors); err != nil {
			return nil, fmt.Errorf("decoding authors for item %s: %w", it.id, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Notes returns the notes attached to an item in insertion order.
func (s *Store) Notes(ctx context.Context, itemID string) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content FROM notes WHERE item_id = ? ORDER BY rowid`, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Content); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// CreateNote attaches a note to an item.
func (s *Store) CreateNote(ctx context.Context, itemID, content string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, item_id, content) VALUES (?, ?, ?)`,
		id, itemID, content)
	if err != nil {
		return "", fmt.Errorf("creating note: %w", err)
	}
	return id, nil
}

// DeleteNote removes a note by id.
func (s *Store) DeleteNote(ctx context.Context, noteID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, noteID); err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	return nil
}

// CreateItem creates a new catalog record.
func (s *Store) CreateItem(ctx context.Context, rec NewRecord) (string, error) {
	id := uuid.NewString()
	authorsJSON, _ := json.Marshal(rec.Authors)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, title, authors, publisher, year, isbn, language, num_pages)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.Title, string(authorsJSON), rec.Publisher, rec.Year,
		rec.ISBN, rec.Language, rec.NumPages)
	if err != nil {
		return "", fmt.Errorf("creating item: %w", err)
	}
	return id, nil
}

// GetOrCreateCollection resolves a collection by name, creating it on first use.
func (s *Store) GetOrCreateCollection(ctx context.Context, name string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM collections WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("looking up collection %q: %w", name, err)
	}

	id = uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO collections (id, name) VALUES (?, ?)`, id, name); err != nil {
		return "", fmt.Errorf("creating collection %q: %w", name, err)
	}
	return id, nil
}

// AddToCollection makes an item a collection member; re-adding is a no-op.
func (s *Store) AddToCollection(ctx context.Context, itemID, collectionID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO collection_items (collection_id, item_id) VALUES (?, ?)`,
		collectionID, itemID)
	if err != nil {
		return fmt.Errorf("adding item to collection: %w", err)
	}
	return nil
}

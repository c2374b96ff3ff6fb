// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
)

// Memory is an in-memory catalog used by component tests. It implements
// the same contract as Store, including idempotent collection membership.
type Memory struct {
	items       []memoryItem
	notes       map[string][]Note // item id → notes
	collections map[string]string // name → id
	members     map[string]map[string]bool
	nextID      int

	// FailNext, when non-empty, makes the next mutating call fail with
	// this message. Tests use it to exercise per-item failure isolation.
	FailNext string
}

type memoryItem struct {
	id      string
	title   string
	authors []string
}

func (i memoryItem) ID() string        { return i.id }
func (i memoryItem) Title() string     { return i.title }
func (i memoryItem) Authors() []string { return i.authors }

// NewMemory returns an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{
		notes:       make(map[string][]Note),
		collections: make(map[string]string),
		members:     make(map[string]map[string]bool),
	}
}

// AddItem seeds a catalog record and returns its id.
func (m *Memory) AddItem(title string, authors ...string) string {
	id := m.newID("item")
	m.items = append(m.items, memoryItem{id: id, title: title, authors: authors})
	return id
}

func (m *Memory) newID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *Memory) failNext() error {
	if m.FailNext == "" {
		return nil
	}
	msg := m.FailNext
	m.FailNext = ""
	return fmt.Errorf("%s", msg)
}

// ListItems returns the seeded records in insertion order.
func (m *Memory) ListItems(_ context.Context) ([]Item, error) {
	items := make([]Item, len(m.items))
	for i, it := range m.items {
		items[i] = it
	}
	return items, nil
}

// Notes returns the notes attached to an item.
func (m *Memory) Notes(_ context.Context, itemID string) ([]Note, error) {
	return append([]Note(nil), m.notes[itemID]...), nil
}

// CreateNote attaches a note to an item.
func (m *Memory) CreateNote(_ context.Context, itemID, content string) (string, error) {
	if err := m.failNext(); err != nil {
		return "", err
	}
	id := m.newID("note")
	m.notes[itemID] = append(m.notes[itemID], Note{ID: id, Content: content})
	return id, nil
}

// DeleteNote removes a note by id.
func (m *Memory) DeleteNote(_ context.Context, noteID string) error {
	if err := m.failNext(); err != nil {
		return err
	}
	for itemID, notes := range m.notes {
		for i, n := range notes {
			if n.ID == noteID {
				m.notes[itemID] = append(notes[:i:i], notes[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("note %s not found", noteID)
}

// CreateItem creates a new catalog record.
func (m *Memory) CreateItem(_ context.Context, rec NewRecord) (string, error) {
	if err := m.failNext(); err != nil {
		return "", err
	}
	id := m.newID("item")
	m.items = append(m.items, memoryItem{id: id, title: rec.Title, authors: rec.Authors})
	return id, nil
}

// GetOrCreateCollection resolves a collection by name.
func (m *Memory) GetOrCreateCollection(_ context.Context, name string) (string, error) {
	if id, ok := m.collections[name]; ok {
		return id, nil
	}
	if err := m.failNext(); err != nil {
		return "", err
	}
	id := m.newID("collection")
	m.collections[name] = id
	m.members[id] = make(map[string]bool)
	return id, nil
}

// AddToCollection makes an item a collection member; re-adding is a no-op.
func (m *Memory) AddToCollection(_ context.Context, itemID, collectionID string) error {
	if err := m.failNext(); err != nil {
		return err
	}
	members, ok := m.members[collectionID]
	if !ok {
		return fmt.Errorf("collection %s not found", collectionID)
	}
	members[itemID] = true
	return nil
}

// Members returns the item ids in a collection, for test assertions.
func (m *Memory) Members(collectionID string) []string {
	var ids []string
	for id := range m.members[collectionID] {
		ids = append(ids, id)
	}
	return ids
}

package v1

import (
	"sync"
)

// StoredItem is one pushed item retained by the mock datastore.
type StoredItem struct {
	ID     string
	Serial string
	Type   string
	Tag    string
	Blob   []byte
}

// Store is the mock datastore's in-memory item table.
type Store struct {
	mu    sync.Mutex
	items []StoredItem
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Add(item StoredItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
}

// Match returns items with the given serial and type, in insertion order. A
// non-empty tag narrows the match; an empty tag matches everything.
func (s *Store) Match(serial, dataType, tag string) []StoredItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []StoredItem
	for _, item := range s.items {
		if item.Serial != serial || item.Type != dataType {
			continue
		}
		if tag != "" && item.Tag != tag {
			continue
		}
		matched = append(matched, item)
	}
	return matched
}

func (s *Store) Get(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID == id {
			return item.Blob, true
		}
	}
	return nil, false
}

// Package entity is the in-memory record store: one index per entity
// class, each mapping a stable identifier to the record's generic nested
// value. There is no persistence; the store is a replace-on-write cache
// rebuilt by the caller whenever the source corpus changes.
package entity

import (
	"sort"
	"sync"

	"github.com/indu-doc/tagdex/internal/domain"
	"github.com/indu-doc/tagdex/internal/domain/record"
)

// Index holds the records of a single entity class in insertion order.
// Writes require the single-writer discipline the store's RWMutex
// provides; reads may run in parallel.
type Index struct {
	mu   sync.RWMutex
	ids  []string
	recs map[string]record.Value
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{recs: make(map[string]record.Value)}
}

// Put stores a record under id. Re-indexing an existing id replaces the
// record in place and keeps its original position; new ids append.
func (i *Index) Put(id string, rec record.Value) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.recs[id]; !ok {
		i.ids = append(i.ids, id)
	}
	i.recs[id] = rec
}

// Get retrieves a record by id.
func (i *Index) Get(id string) (record.Value, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	rec, ok := i.recs[id]
	return rec, ok
}

// Len returns the number of indexed records.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.ids)
}

// IDs returns the identifiers in insertion order.
func (i *Index) IDs() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]string, len(i.ids))
	copy(out, i.ids)
	return out
}

// Walk visits every record in insertion order until fn returns false.
func (i *Index) Walk(fn func(id string, rec record.Value) bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	for _, id := range i.ids {
		if !fn(id, i.recs[id]) {
			return
		}
	}
}

// Store groups indices by entity class name.
type Store struct {
	mu      sync.RWMutex
	classes map[string]*Index
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{classes: make(map[string]*Index)}
}

// Class returns the index for a class, creating it on first use.
func (s *Store) Class(name string) *Index {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.classes[name]
	if !ok {
		idx = NewIndex()
		s.classes[name] = idx
	}
	return idx
}

// Lookup returns the index for a class without creating it.
func (s *Store) Lookup(name string) (*Index, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.classes[name]
	return idx, ok
}

// Put stores one record under a class, creating the class on first use.
func (s *Store) Put(class, id string, rec record.Value) {
	s.Class(class).Put(id, rec)
}

// Walk visits a class's records in insertion order. It reports
// ErrClassNotFound for unknown classes so a search over a never-indexed
// class is an error rather than a silently empty result.
func (s *Store) Walk(class string, fn func(id string, rec record.Value) bool) error {
	idx, ok := s.Lookup(class)
	if !ok {
		return domain.ErrClassNotFound
	}
	idx.Walk(fn)
	return nil
}

// Drop discards a whole class. Partial deletes are not supported; the
// class is rebuilt by re-indexing.
func (s *Store) Drop(class string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.classes[class]
	delete(s.classes, class)
	return ok
}

// Classes returns the known class names, sorted.
func (s *Store) Classes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.classes))
	for name := range s.classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Stats returns record counts per class.
func (s *Store) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.classes))
	for name, idx := range s.classes {
		out[name] = idx.Len()
	}
	return out
}

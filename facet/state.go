package facet

import (
	"github.com/hupe1980/facetgo/arena"
	"github.com/hupe1980/facetgo/playlist"
)

// State is a frozen faceted index.
//
// It is produced by one blocking Build call and never mutated afterwards,
// so concurrent read-only queries are safe without locking. Release tears
// it down; no query may run against a released State.
type State struct {
	arena      *arena.Arena
	values     [CategoryCount][]*Value
	hasUnknown [CategoryCount]bool
	entries    []Entry
	playlists  []*playlist.Playlist
	postings   *postings
}

// Values returns the sorted value array of cat. The slice is owned by the
// State and must not be modified.
func (s *State) Values(cat Category) []*Value { return s.values[cat] }

// ValueOf returns the value of cat whose label equals label under ASCII
// case folding, or nil when the category has no such value.
func (s *State) ValueOf(cat Category, label string) *Value {
	for _, v := range s.values[cat] {
		if compareFold(v.Label, label) == 0 {
			return v
		}
	}
	return nil
}

// HasUnknown reports whether at least one entry lacked a value for cat
// during the build.
func (s *State) HasUnknown(cat Category) bool { return s.hasUnknown[cat] }

// Len returns the number of indexed entries.
func (s *State) Len() int { return len(s.entries) }

// EntryAt returns the entry at ordinal i in label-sorted order.
func (s *State) EntryAt(i int) *Entry { return &s.entries[i] }

// Playlists returns the retained source collections: every playlist that
// contributed at least one usable entry.
func (s *State) Playlists() []*playlist.Playlist { return s.playlists }

// Release frees the arena and drops all index storage. The State and any
// Values or Entries obtained from it must not be used afterwards.
func (s *State) Release() {
	if s == nil {
		return
	}
	for c := range s.values {
		s.values[c] = nil
	}
	s.entries = nil
	s.playlists = nil
	s.postings = nil
	if s.arena != nil {
		s.arena.Release()
		s.arena = nil
	}
}

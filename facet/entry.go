package facet

import "github.com/hupe1980/facetgo/playlist"

// Entry links one playlist record to its facet memberships.
type Entry struct {
	// Record is the underlying playlist entry. It is referenced, not
	// owned; the State retains the playlist it came from.
	Record *playlist.Entry

	// By holds the primary value per category. A nil slot means the
	// category is unknown for this entry.
	By [CategoryCount]*Value

	// Split holds additional values beyond the primary for split
	// categories, in field order across categories.
	Split []*Value

	// AltTitle is an alternate display title from the metadata record,
	// empty when none was present. It aliases State arena memory.
	AltTitle string
}

// Title returns the presented title: the alternate title when captured,
// else the playlist label.
func (e *Entry) Title() string {
	if e.AltTitle != "" {
		return e.AltTitle
	}
	return e.Record.Label
}

// Has reports whether the entry carries v for v's category, either as the
// primary value or, for split categories, among the split values. A nil v
// matches entries whose primary value for cat is unknown.
func (e *Entry) Has(cat Category, v *Value) bool {
	if e.By[cat] == v {
		return true
	}
	if v == nil || !Descriptors[cat].Split {
		return false
	}
	for _, s := range e.Split {
		if s == v {
			return true
		}
	}
	return false
}

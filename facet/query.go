package facet

import "github.com/RoaringBitmap/roaring/v2"

// Constraint is one step of a navigation path: a category plus either a
// selected value of that category or nil for "unknown".
type Constraint struct {
	Category Category
	Value    *Value
}

// Is returns a constraint selecting v within its category.
func Is(v *Value) Constraint { return Constraint{Category: v.Cat, Value: v} }

// Unknown returns a constraint matching entries with no value for cat.
func Unknown(cat Category) Constraint { return Constraint{Category: cat} }

// matches is the reference scan predicate: the entry satisfies every
// constraint (primary equality, or split membership for split
// categories; nil matches a missing primary).
func (e *Entry) matches(cons []Constraint) bool {
	for _, c := range cons {
		if !e.Has(c.Category, c.Value) {
			return false
		}
	}
	return true
}

// matchBitmap intersects the constraint postings. A nil result means
// "all entries". Starts from the smallest bitmap to reduce work.
func (s *State) matchBitmap(cons []Constraint) *roaring.Bitmap {
	if len(cons) == 0 {
		return nil
	}
	sets := make([]*roaring.Bitmap, len(cons))
	base := 0
	for i, c := range cons {
		sets[i] = s.postings.bitmap(c.Category, c.Value)
		if sets[i].GetCardinality() < sets[base].GetCardinality() {
			base = i
		}
	}
	out := sets[base].Clone()
	for i, bm := range sets {
		if i == base || out.IsEmpty() {
			continue
		}
		out.And(bm)
	}
	return out
}

// Entries returns every entry satisfying the constraints whose display
// label contains find as a case-insensitive substring (an empty find
// matches everything). Results are in the prebuilt label-sorted order.
func (s *State) Entries(cons []Constraint, find string) []*Entry {
	bm := s.matchBitmap(cons)
	var out []*Entry

	emit := func(ord uint32) {
		e := &s.entries[ord]
		if find != "" && !containsFold(e.Record.Label, find) {
			return
		}
		out = append(out, e)
	}

	if bm == nil {
		for i := range s.entries {
			emit(uint32(i))
		}
		return out
	}
	it := bm.Iterator()
	for it.HasNext() {
		emit(it.Next())
	}
	return out
}

// DistinctValues returns the distinct primary values of target among the
// entries satisfying the constraints and free-text filter, in the
// category's pre-sorted order. hasUnknown is true when at least one
// satisfying entry lacks a value for target.
func (s *State) DistinctValues(cons []Constraint, find string, target Category) (values []*Value, hasUnknown bool) {
	bm := s.matchBitmap(cons)
	seen := roaring.New()

	visit := func(ord uint32) {
		e := &s.entries[ord]
		if find != "" && !containsFold(e.Record.Label, find) {
			return
		}
		v := e.By[target]
		if v == nil {
			hasUnknown = true
			return
		}
		seen.Add(v.Idx)
	}

	if bm == nil {
		for i := range s.entries {
			visit(uint32(i))
		}
	} else {
		it := bm.Iterator()
		for it.HasNext() {
			visit(it.Next())
		}
	}

	values = make([]*Value, 0, seen.GetCardinality())
	it := seen.Iterator()
	for it.HasNext() {
		values = append(values, s.values[target][it.Next()])
	}
	return values, hasUnknown
}

package facet

import "github.com/RoaringBitmap/roaring/v2"

// postings are per-(category, value) bitmaps over entry ordinals, built
// once after the final sort. A value's bitmap contains every entry that
// carries the value as its primary or, for split categories, among its
// split values, so intersecting constraint bitmaps is exactly the
// combinational filter of the scan algorithm. Ordinals are positions in
// the label-sorted entry array, so ascending iteration yields entries in
// presentation order.
type postings struct {
	byValue map[postingKey]*roaring.Bitmap
	unknown [CategoryCount]*roaring.Bitmap
}

type postingKey struct {
	cat Category
	idx uint32
}

func buildPostings(entries []Entry) *postings {
	p := &postings{byValue: make(map[postingKey]*roaring.Bitmap)}
	for c := range p.unknown {
		p.unknown[c] = roaring.New()
	}

	add := func(cat Category, idx uint32, ord uint32) {
		key := postingKey{cat: cat, idx: idx}
		bm := p.byValue[key]
		if bm == nil {
			bm = roaring.New()
			p.byValue[key] = bm
		}
		bm.Add(ord)
	}

	for i := range entries {
		ord := uint32(i)
		e := &entries[i]
		for cat := Category(0); cat < CategoryCount; cat++ {
			if v := e.By[cat]; v != nil {
				add(cat, v.Idx, ord)
			} else {
				p.unknown[cat].Add(ord)
			}
		}
		for _, v := range e.Split {
			add(v.Cat, v.Idx, ord)
		}
	}
	return p
}

var emptyBitmap = roaring.New()

// bitmap returns the posting bitmap for a constraint. The result must be
// treated as read-only.
func (p *postings) bitmap(cat Category, v *Value) *roaring.Bitmap {
	if v == nil {
		return p.unknown[cat]
	}
	if bm := p.byValue[postingKey{cat: cat, idx: v.Idx}]; bm != nil {
		return bm
	}
	return emptyBitmap
}

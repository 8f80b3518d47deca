package facet

import (
	"github.com/hupe1980/facetgo/arena"
	"github.com/hupe1980/facetgo/intmap"
	"github.com/hupe1980/facetgo/xbuf"
)

// interner turns raw metadata fields into canonical, deduplicated Values.
// One interner lives for the duration of a build; its per-category maps
// are transient while the value arrays and arena move into the State.
type interner struct {
	arena      *arena.Arena
	maps       [CategoryCount]intmap.Map
	values     [CategoryCount]xbuf.Buffer[*Value]
	hasUnknown [CategoryCount]bool

	// splitBuf collects secondary values of the record currently being
	// processed. Cleared after each record.
	splitBuf xbuf.Buffer[*Value]
}

func isDelim(c byte) bool { return c == '/' || c == ',' || c == '|' }

// companySuffixes are the legal-suffix tokens stripped from organization
// names, matched case-insensitively with an optional trailing period.
var companySuffixes = []string{"inc", "ltd", "the", "co"}

func equalFoldASCII(s, t string) bool {
	if len(s) != len(t) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if foldByte(s[i]) != foldByte(t[i]) {
			return false
		}
	}
	return true
}

// companySuffixAt returns the length of a legal-suffix token starting at
// s[i], including an optional trailing period. 0 when there is no token.
func companySuffixAt(s string, i int) int {
	for _, suf := range companySuffixes {
		if i+len(suf) > len(s) || !equalFoldASCII(s[i:i+len(suf)], suf) {
			continue
		}
		if i+len(suf) < len(s) && s[i+len(suf)] == '.' {
			return len(suf) + 1
		}
		return len(suf)
	}
	return 0
}

// stripCompanySuffix removes a trailing legal-suffix token from the
// segment s[segStart:segEnd], provided it is preceded by a space. It
// returns the new segment end.
func stripCompanySuffix(s string, segStart, segEnd int) int {
	end := segEnd
	if s[end-1] == '.' {
		end--
	}
	for _, suf := range companySuffixes {
		tok := end - len(suf)
		if tok-1 < segStart || s[tok-1] != ' ' {
			continue
		}
		if equalFoldASCII(s[tok:end], suf) {
			return tok
		}
	}
	return segEnd
}

// intern returns the canonical Value for seg within cat, creating and
// registering it on first sight. Candidates are matched by case-folding
// hash so case variants deduplicate; bytes below '0' (spaces,
// punctuation) do not influence the hash.
func (in *interner) intern(cat Category, seg string) *Value {
	h := intmap.Hash32FoldedRange(seg, '0', 0xff)
	if handle := in.maps[cat].Get(h); handle != 0 {
		return in.values[cat].At(int(handle - 1))
	}
	v := &Value{Label: in.arena.Intern(seg), Cat: cat}
	in.values[cat].Push(v)
	// Handles are offset by one; 0 is the map's "absent" result.
	in.maps[cat].Set(h, uint64(in.values[cat].Len()))
	return v
}

// addField canonicalizes one raw field of a record and attaches the
// resulting values to e.
//
// Absent or blank input marks the category unknown for this build. Split
// categories split the field on '/', ',' and '|'; other categories take
// the whole trimmed field as a single candidate. Each candidate is
// whitespace-trimmed and, for organization categories, stripped of a
// trailing legal suffix. The first accepted value becomes the entry's
// primary value for the category, further values go to the split buffer.
//
// When a comma is followed only by a legal-suffix token and then another
// delimiter or the end of the field, the suffix belongs to the preceding
// value ("Atari, Inc" is one value) and is dropped.
func (in *interner) addField(e *Entry, cat Category, field string) {
	i := 0
	for i < len(field) && field[i] == ' ' {
		i++
	}
	if i == len(field) {
		in.hasUnknown[cat] = true
		return
	}

	desc := Descriptors[cat]
	s := field
	start := 0
	p := 1
	for {
		for p < len(s) && !(desc.Split && isDelim(s[p])) {
			p++
		}
		pn := p // delimiter position, len(s) at end of field

		segStart, segEnd := start, p
		for segStart < segEnd && s[segStart] == ' ' {
			segStart++
		}
		for segEnd > segStart && s[segEnd-1] == ' ' {
			segEnd--
		}

		if segEnd == segStart {
			if pn == len(s) {
				return
			}
			start = pn + 1
			p = start
			continue
		}

		if desc.Organization && segEnd-segStart > 5 {
			segEnd = stripCompanySuffix(s, segStart, segEnd)
			for segEnd > segStart && s[segEnd-1] == ' ' {
				segEnd--
			}
		}

		v := in.intern(cat, s[segStart:segEnd])
		if e.By[cat] == nil {
			e.By[cat] = v
		} else if desc.Split {
			in.splitBuf.Push(v)
		}

		if pn == len(s) {
			return
		}
		if desc.Organization && s[pn] == ',' {
			// Suffix check happens before re-testing for a delimiter.
			q := pn + 1
			for q < len(s) && s[q] == ' ' {
				q++
			}
			q += companySuffixAt(s, q)
			for q < len(s) && s[q] == ' ' {
				q++
			}
			if q == len(s) {
				return
			}
			if isDelim(s[q]) {
				pn = q
			}
		}
		start = pn + 1
		p = start
	}
}

// release frees the transient intern maps; the value buffers and arena
// have been handed to the State by then.
func (in *interner) release() {
	for c := range in.maps {
		in.maps[c].Free()
	}
	in.splitBuf.Free()
}

package facet

// Value is a canonical, deduplicated label within one category.
//
// Values are created by the interner during a build; after interning, two
// values of the same category are equal iff they are the same *Value.
// Query-path dedup and set membership go through the stable Idx handle,
// assigned once after the category array is sorted.
type Value struct {
	// Label is the canonical label. It aliases arena memory owned by the
	// State and must not be retained past State.Release.
	Label string
	// Cat is the owning category.
	Cat Category
	// Idx is the position of this value in its category's sorted array.
	// It is assigned at the end of the build and never changes.
	Idx uint32
}

func (v *Value) String() string {
	if v == nil {
		return "Unknown"
	}
	return v.Label
}

// compareLabels orders labels case-insensitively (ASCII fold), breaking
// ties on the first byte so "Apple" sorts before "apple" deterministically.
func compareLabels(a, b string) int {
	if c := compareFold(a, b); c != 0 {
		return c
	}
	if len(a) > 0 && len(b) > 0 && a[0] != b[0] {
		return int(a[0]) - int(b[0])
	}
	return 0
}

func foldByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c | 0x20
	}
	return c
}

func compareFold(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ca, cb := foldByte(a[i]), foldByte(b[i])
		if ca != cb {
			return int(ca) - int(cb)
		}
	}
	return len(a) - len(b)
}

// containsFold reports whether s contains substr under ASCII case folding.
func containsFold(s, substr string) bool {
	if len(substr) == 0 {
		return true
	}
	if len(substr) > len(s) {
		return false
	}
	first := foldByte(substr[0])
	for i := 0; i+len(substr) <= len(s); i++ {
		if foldByte(s[i]) != first {
			continue
		}
		j := 1
		for j < len(substr) && foldByte(s[i+j]) == foldByte(substr[j]) {
			j++
		}
		if j == len(substr) {
			return true
		}
	}
	return false
}

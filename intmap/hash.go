package intmap

const (
	fnvOffset32 = 0x811c9dc5
	fnvPrime32  = 0x01000193
)

// Hash32 returns the 32-bit FNV-1a hash of s.
//
// The result is never 0: a computed hash of 0 is remapped to 1 so it can
// never collide with the Map empty-slot sentinel.
func Hash32(s string) uint32 {
	hash := uint32(fnvOffset32)
	for i := 0; i < len(s); i++ {
		hash = (hash * fnvPrime32) ^ uint32(s[i])
	}
	if hash == 0 {
		return 1
	}
	return hash
}

// Hash32FoldedRange hashes only the bytes of s within [first, last],
// case-folding ASCII letters to lowercase.
//
// Excluding a leading byte range lets callers keep punctuation and
// whitespace from influencing the hash, so "Action" and "act ion" style
// case/punctuation variants collide and deduplicate.
//
// Like Hash32, the result is never 0.
func Hash32FoldedRange(s string, first, last byte) uint32 {
	hash := uint32(fnvOffset32)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < first || c > last {
			continue
		}
		if c >= 'A' && c <= 'Z' {
			c |= 0x20
		}
		hash = (hash * fnvPrime32) ^ uint32(c)
	}
	if hash == 0 {
		return 1
	}
	return hash
}

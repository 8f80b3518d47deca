// Package arena provides an append-only block allocator for build-time
// string interning.
//
// An Arena hands out byte slices carved from large blocks. Allocations are
// never freed individually; the whole arena is released at once when the
// index it backs is torn down. This keeps thousands of small immutable
// strings from fragmenting the heap during an index build.
package arena

import "unsafe"

const (
	// Alignment is the word alignment applied to every allocation.
	Alignment = 8

	// BlockSize is the default size of a freshly allocated block.
	BlockSize = 64 * 1024
)

// Arena is an append-only bump allocator. The zero value is ready to use.
//
// It is not safe for concurrent use.
type Arena struct {
	cur    []byte
	off    int
	blocks [][]byte
}

func alignUp(n int) int {
	return (n + Alignment - 1) &^ (Alignment - 1)
}

func (a *Arena) grow(min int) {
	size := min
	if size < BlockSize {
		size = BlockSize
	}
	size = alignUp(size)
	a.cur = make([]byte, size)
	a.off = 0
	a.blocks = append(a.blocks, a.cur)
}

// Alloc returns a zeroed, word-aligned byte slice of length n. The slice
// stays valid until Release is called.
func (a *Arena) Alloc(n int) []byte {
	if n > len(a.cur)-a.off {
		a.grow(n)
	}
	b := a.cur[a.off : a.off+n : a.off+n]
	a.off = alignUp(a.off + n)
	if a.off > len(a.cur) {
		a.off = len(a.cur)
	}
	return b
}

// Intern copies s into the arena and returns a string view of the copy.
//
// The returned string aliases arena memory and must not outlive the arena.
func (a *Arena) Intern(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := a.Alloc(len(s))
	copy(b, s)
	return unsafe.String(&b[0], len(b))
}

// Len returns the number of allocated blocks.
func (a *Arena) Len() int { return len(a.blocks) }

// Release drops every block and resets the arena to empty. Strings and
// slices previously handed out must no longer be used.
func (a *Arena) Release() {
	a.cur = nil
	a.off = 0
	a.blocks = nil
}

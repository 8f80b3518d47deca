// Package xbuf provides a generic growable buffer used as the vector
// primitive throughout the index build.
package xbuf

// minCap is the smallest capacity allocated on first growth.
const minCap = 16

// Buffer is a length/capacity/storage triple with doubling growth.
// The zero value is an empty buffer ready to use.
//
// It never shrinks; Clear keeps the capacity for reuse and Free releases
// the storage entirely.
type Buffer[T any] struct {
	items []T
}

func (b *Buffer[T]) grow(need int) {
	newCap := 2 * cap(b.items)
	if newCap < need {
		newCap = need
	}
	if newCap < minCap {
		newCap = minCap
	}
	items := make([]T, len(b.items), newCap)
	copy(items, b.items)
	b.items = items
}

// Push appends v. Amortized O(1).
func (b *Buffer[T]) Push(v T) {
	if len(b.items) == cap(b.items) {
		b.grow(len(b.items) + 1)
	}
	b.items = append(b.items, v)
}

// Pop removes and returns the last element. Panics when empty.
func (b *Buffer[T]) Pop() T {
	v := b.items[len(b.items)-1]
	b.items = b.items[:len(b.items)-1]
	return v
}

// At returns the element at index i.
func (b *Buffer[T]) At(i int) T { return b.items[i] }

// Len returns the number of elements.
func (b *Buffer[T]) Len() int { return len(b.items) }

// Cap returns the current capacity.
func (b *Buffer[T]) Cap() int { return cap(b.items) }

// Slice returns the underlying storage. The slice is invalidated by the
// next Push/Resize/Free.
func (b *Buffer[T]) Slice() []T { return b.items }

// Resize sets the length to n, growing the storage if needed. New
// elements are zero values.
func (b *Buffer[T]) Resize(n int) {
	if n > cap(b.items) {
		b.grow(n)
	}
	old := len(b.items)
	if n < old {
		clear(b.items[n:old])
	}
	b.items = b.items[:n]
	if n > old {
		clear(b.items[old:n])
	}
}

// Clear sets the length to zero, retaining capacity.
func (b *Buffer[T]) Clear() {
	clear(b.items)
	b.items = b.items[:0]
}

// Free releases the storage.
func (b *Buffer[T]) Free() { b.items = nil }

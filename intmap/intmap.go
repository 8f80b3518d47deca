// Package intmap provides a uint32-keyed open-addressing hash map and the
// 32-bit hash functions that feed it.
//
// The map backs string interning and checksum matching during an index
// build. The lifecycle is build-then-query: there is no delete. Key 0 is
// reserved as the empty-slot sentinel, which is why both hash functions in
// this package never return 0.
package intmap

// Map is an open-addressing hash map with linear probing.
//
// The table capacity is always a power of two so slot selection is a
// bitwise AND. The load factor is kept at or below 0.5. The zero value is
// an empty map ready to use.
//
// A value of 0 is indistinguishable from "not found"; callers store
// handles offset by one where zero payloads are possible.
//
// It is not safe for concurrent use.
type Map struct {
	len  uint32
	keys []uint32
	vals []uint64
}

func (m *Map) grow(newCap uint32) {
	if newCap < 16 {
		newCap = 16
	}
	oldKeys := m.keys
	oldVals := m.vals
	m.keys = make([]uint32, newCap)
	m.vals = make([]uint64, newCap)
	mask := newCap - 1

	for i, key := range oldKeys {
		if key == 0 {
			continue
		}
		for j := key; ; j++ {
			j &= mask
			if m.keys[j] == 0 {
				m.keys[j] = key
				m.vals[j] = oldVals[i]
				break
			}
		}
	}
}

// Len returns the number of live entries.
func (m *Map) Len() int { return int(m.len) }

// Get returns the value stored under key, or 0 when absent. Key 0 always
// returns 0.
func (m *Map) Get(key uint32) uint64 {
	if m.len == 0 || key == 0 {
		return 0
	}
	mask := uint32(len(m.keys)) - 1
	for i := key; ; i++ {
		i &= mask
		if m.keys[i] == key {
			return m.vals[i]
		}
		if m.keys[i] == 0 {
			return 0
		}
	}
}

// Set stores val under key, replacing any previous value. Key 0 is
// silently ignored.
func (m *Map) Set(key uint32, val uint64) {
	if key == 0 {
		return
	}
	if 2*m.len >= uint32(len(m.keys)) {
		m.grow(2 * uint32(len(m.keys)))
	}
	mask := uint32(len(m.keys)) - 1
	for i := key; ; i++ {
		i &= mask
		if m.keys[i] == 0 {
			m.len++
			m.keys[i] = key
			m.vals[i] = val
			return
		}
		if m.keys[i] == key {
			m.vals[i] = val
			return
		}
	}
}

// GetStr is Get keyed by the exact hash of s.
func (m *Map) GetStr(s string) uint64 { return m.Get(Hash32(s)) }

// SetStr is Set keyed by the exact hash of s.
func (m *Map) SetStr(s string, val uint64) { m.Set(Hash32(s), val) }

// Free releases the table storage and resets the map to empty.
func (m *Map) Free() {
	m.len = 0
	m.keys = nil
	m.vals = nil
}

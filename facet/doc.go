// Package facet implements an in-memory faceted index over a games
// library.
//
// A build merges per-title metadata from keyed databases with entries
// from user-curated playlists, canonicalizes and deduplicates categorical
// values (developer, genre, release year, ...), and freezes the result
// into a State. The State then answers multi-facet navigation queries:
// distinct values of a category under constraints, or the matching
// entries themselves, optionally narrowed by a case-insensitive free-text
// substring.
//
// The build is one blocking pass; the State is immutable afterwards, so
// concurrent read-only queries need no locking. Rebuilding means
// releasing the old State and building a new one.
package facet

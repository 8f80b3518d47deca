// Package facetgo provides an embedded faceted browsing engine for games
// libraries.
//
// It merges per-title metadata from keyed databases (RDB or sqlite) with
// entries from user-curated playlists, deduplicates categorical values,
// and answers multi-facet navigation queries fast enough for interactive
// drill-down on constrained hardware.
//
// # Quick Start
//
//	ex := facetgo.New(
//	    playlist.DirStore{Dir: "./playlists"},
//	    metadb.FileOpener{Dir: "./database"},
//	    facetgo.WithRegistry(reg),
//	)
//	defer ex.Close()
//
//	// Distinct genres of all Nintendo-published titles.
//	pub, _ := ex.Value(ctx, facet.Publisher, "Nintendo")
//	genres, hasUnknown, _ := ex.DistinctValues(ctx,
//	    []facet.Constraint{facet.Is(pub)}, facet.Genre, "")
//
//	// All matching entries, free-text narrowed.
//	entries, _ := ex.Entries(ctx, []facet.Constraint{facet.Is(pub)}, "mario")
//
// # Lifecycle
//
// The index is built lazily on first query in one blocking pass and is
// immutable afterwards; queries are safe concurrently. Invalidate drops
// the index so the next query rebuilds it; WithWatch wires a filesystem
// watcher that invalidates automatically when the playlist directory
// changes. A rebuild publishes the new index atomically and leaves the
// replaced one to the garbage collector once in-flight queries finish,
// so queries never observe a partially built or torn-down index.
package facetgo

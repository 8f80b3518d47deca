package facet

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/facetgo/arena"
	"github.com/hupe1980/facetgo/intmap"
	"github.com/hupe1980/facetgo/metadb"
	"github.com/hupe1980/facetgo/playlist"
	"github.com/hupe1980/facetgo/registry"
	"github.com/hupe1980/facetgo/xbuf"
)

// BuildOptions are the external collaborators consumed by a build.
type BuildOptions struct {
	// Store enumerates the collections to index. Required.
	Store playlist.Store

	// Opener resolves database tags to metadata databases. Required.
	Opener metadb.Opener

	// Registry resolves core display names to system names. Optional;
	// without it every entry has an unknown System.
	Registry *registry.Registry

	// Logger receives build diagnostics. Nil disables logging.
	Logger *slog.Logger
}

// deadTag marks a database tag whose open failed; its entries are skipped
// for the remainder of the build, never retried.
const deadTag = math.MaxUint64

// openDB is the per-database transient build state: the handle, the
// checksum map, and the playlist entries waiting to be matched.
type openDB struct {
	tag     string
	db      metadb.DB
	byCRC   intmap.Map
	records []*playlist.Entry
}

// Build runs one blocking indexing pass over all collections and their
// metadata databases and returns the frozen index.
//
// Database open failures are absorbed: the tag is marked unusable and its
// entries are dropped. Records without a checksum, or whose checksum
// matches no retained collection entry, are skipped. Everything else is
// fatal; no partial index is ever returned.
func Build(ctx context.Context, opts BuildOptions) (*State, error) {
	if opts.Store == nil || opts.Opener == nil {
		return nil, fmt.Errorf("facet: build requires a playlist store and a database opener")
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	playlists, err := opts.Store.Playlists()
	if err != nil {
		return nil, fmt.Errorf("facet: enumerate playlists: %w", err)
	}

	in := &interner{arena: &arena.Arena{}}
	defer in.release()

	var (
		dbs        []*openDB
		dbIndices  intmap.Map // tag hash -> dbs index+1, or deadTag
		retained   xbuf.Buffer[*playlist.Playlist]
		entries    xbuf.Buffer[Entry]
		numSkipped int
	)
	defer dbIndices.Free()

	for _, pl := range playlists {
		if err := ctx.Err(); err != nil {
			closeAll(dbs)
			return nil, err
		}
		used := 0
		for i := range pl.Items {
			item := &pl.Items[i]
			crc, ok := item.Checksum()
			tag := item.DBTag()
			if !ok || tag == "" || item.Label == "" {
				numSkipped++
				continue
			}

			handle := dbIndices.GetStr(tag)
			if handle == 0 {
				db, err := opts.Opener.Open(tag)
				if err != nil {
					log.Warn("metadata database unusable, skipping its entries",
						"tag", tag, "error", err)
					dbIndices.SetStr(tag, deadTag)
					numSkipped++
					continue
				}
				dbs = append(dbs, &openDB{tag: tag, db: db})
				handle = uint64(len(dbs))
				dbIndices.SetStr(tag, handle)
			}
			if handle == deadTag {
				numSkipped++
				continue
			}

			odb := dbs[handle-1]
			odb.records = append(odb.records, item)
			odb.byCRC.Set(crc, uint64(len(odb.records)))
			used++
		}
		if used > 0 {
			retained.Push(pl)
		}
	}

	progress := rate.Sometimes{Interval: time.Second}
	for _, odb := range dbs {
		if err := ctx.Err(); err != nil {
			closeAll(dbs)
			return nil, err
		}
		if err := consumeDB(ctx, odb, in, &entries, opts.Registry, log, &progress); err != nil {
			closeAll(dbs)
			return nil, err
		}
		odb.byCRC.Free()
		odb.records = nil
		if err := odb.db.Close(); err != nil {
			log.Warn("closing metadata database", "tag", odb.tag, "error", err)
		}
	}

	state := &State{
		arena:      in.arena,
		hasUnknown: in.hasUnknown,
		entries:    entries.Slice(),
		playlists:  retained.Slice(),
	}
	for cat := Category(0); cat < CategoryCount; cat++ {
		vals := in.values[cat].Slice()
		sort.Slice(vals, func(i, j int) bool {
			return compareLabels(vals[i].Label, vals[j].Label) < 0
		})
		for idx, v := range vals {
			v.Idx = uint32(idx)
		}
		state.values[cat] = vals
	}
	sort.Slice(state.entries, func(i, j int) bool {
		return compareLabels(state.entries[i].Record.Label, state.entries[j].Record.Label) < 0
	})
	state.postings = buildPostings(state.entries)

	log.Info("index built",
		"entries", len(state.entries),
		"collections", len(state.playlists),
		"databases", len(dbs),
		"skipped", numSkipped,
	)
	return state, nil
}

func closeAll(dbs []*openDB) {
	for _, odb := range dbs {
		_ = odb.db.Close()
	}
}

// consumeDB streams every record of one database, matching records to
// playlist entries by checksum and materializing matched entries.
func consumeDB(ctx context.Context, odb *openDB, in *interner,
	entries *xbuf.Buffer[Entry], reg *registry.Registry,
	log *slog.Logger, progress *rate.Sometimes,
) error {
	cur, err := odb.db.Cursor()
	if err != nil {
		log.Warn("metadata database cursor failed, skipping",
			"tag", odb.tag, "error", err)
		return nil
	}
	defer cur.Close()

	scanned := 0
	for {
		if scanned&0x0fff == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		rec, ok, err := cur.Next()
		if err != nil {
			log.Warn("metadata database read failed, rest of tag skipped",
				"tag", odb.tag, "records", scanned, "error", err)
			return nil
		}
		if !ok {
			return nil
		}
		scanned++
		progress.Do(func() {
			log.Debug("indexing", "tag", odb.tag, "records", scanned, "entries", entries.Len())
		})

		items, ok := rec.AsMap()
		if !ok {
			continue
		}

		var (
			fields   [CategoryCount]string
			crc      uint32
			hasCRC   bool
			altTitle string
		)
		for _, item := range items {
			key, ok := item.Key.AsString()
			if !ok {
				continue
			}
			switch key {
			case "crc":
				if bin, ok := item.Value.AsBinary(); ok && len(bin) >= 4 {
					crc = binary.BigEndian.Uint32(bin)
					hasCRC = true
				}
			case "original_title":
				if s, ok := item.Value.AsString(); ok {
					altTitle = s
				}
			default:
				for cat := Category(0); cat < CategoryCount; cat++ {
					if cat == System || Descriptors[cat].DBKey != key {
						continue
					}
					if Descriptors[cat].Numeric {
						if n, ok := item.Value.AsInt64(); ok && n != 0 {
							fields[cat] = strconv.FormatInt(n, 10)
						}
					} else if s, ok := item.Value.AsString(); ok {
						fields[cat] = s
					}
					break
				}
			}
		}

		if !hasCRC {
			continue
		}
		handle := odb.byCRC.Get(crc)
		if handle == 0 {
			continue
		}

		e := Entry{Record: odb.records[handle-1]}
		for cat := Category(0); cat < CategoryCount; cat++ {
			if cat == System {
				continue
			}
			in.addField(&e, cat, fields[cat])
		}
		system, _ := reg.Lookup(e.Record.CoreName)
		in.addField(&e, System, system)

		if altTitle != "" {
			e.AltTitle = in.arena.Intern(altTitle)
		}
		if in.splitBuf.Len() > 0 {
			e.Split = append([]*Value(nil), in.splitBuf.Slice()...)
			in.splitBuf.Clear()
		}
		entries.Push(e)
	}
}

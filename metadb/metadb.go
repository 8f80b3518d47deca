// Package metadb provides read-only access to keyed metadata databases.
//
// A database is opened by tag, exposes a forward cursor over map-like
// records, and is consumed exactly once per index build. Two on-disk
// backends are provided: the RDB binary format (memory-mapped) and a
// sqlite games table. Records are decoded into the closed variant type
// Value.
package metadb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by an Opener when no database file exists for a
// tag.
var ErrNotFound = errors.New("metadb: database not found")

// DB is an open metadata database.
type DB interface {
	// Cursor returns a forward cursor over all records. A DB supports one
	// active cursor at a time.
	Cursor() (Cursor, error)

	// Close releases the database handle. No cursor may be used afterwards.
	Close() error
}

// Cursor iterates records in storage order.
type Cursor interface {
	// Next returns the next record. ok is false once the cursor is
	// exhausted. A non-nil error terminates iteration.
	Next() (rec Value, ok bool, err error)

	// Close releases cursor resources.
	Close() error
}

// Opener resolves a database tag to an open DB.
type Opener interface {
	Open(tag string) (DB, error)
}

// FileOpener resolves tags against a directory, trying the RDB binary
// format first and a sqlite database second.
type FileOpener struct {
	// Dir is the database directory.
	Dir string
}

// Open implements Opener.
func (o FileOpener) Open(tag string) (DB, error) {
	rdbPath := filepath.Join(o.Dir, tag+".rdb")
	if _, err := os.Stat(rdbPath); err == nil {
		return OpenRDB(rdbPath)
	}
	for _, ext := range []string{".db", ".sqlite"} {
		p := filepath.Join(o.Dir, tag+ext)
		if _, err := os.Stat(p); err == nil {
			return OpenSQLite(p)
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrNotFound, tag, o.Dir)
}

package metadb

import (
	"database/sql"
	"encoding/binary"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// sqliteColumns are the game table columns surfaced as record fields, in
// select order. The crc column may hold either a 4-byte blob or a hex
// string; everything else is text or integer.
var sqliteColumns = []string{
	"crc",
	"original_title",
	"developer",
	"publisher",
	"releaseyear",
	"users",
	"genre",
	"origin",
	"region",
	"franchise",
	"tags",
}

// SQLiteDB adapts a sqlite games table to the DB interface.
//
// The expected schema is a table named "games" with the columns listed in
// sqliteColumns; missing columns simply yield absent fields.
type SQLiteDB struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens the sqlite database at path in read-only mode.
func OpenSQLite(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("metadb: open sqlite %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("metadb: open sqlite %s: %w", path, err)
	}
	return &SQLiteDB{db: db, path: path}, nil
}

// Cursor implements DB.
func (s *SQLiteDB) Cursor() (Cursor, error) {
	cols := ""
	for i, c := range sqliteColumns {
		if i > 0 {
			cols += ", "
		}
		cols += c
	}
	rows, err := s.db.Query("SELECT " + cols + " FROM games")
	if err != nil {
		return nil, fmt.Errorf("metadb: query %s: %w", s.path, err)
	}
	return &sqliteCursor{rows: rows}, nil
}

// Close implements DB.
func (s *SQLiteDB) Close() error { return s.db.Close() }

type sqliteCursor struct {
	rows *sql.Rows
}

// Next implements Cursor.
func (c *sqliteCursor) Next() (Value, bool, error) {
	if !c.rows.Next() {
		return Value{}, false, c.rows.Err()
	}
	dest := make([]any, len(sqliteColumns))
	for i := range dest {
		dest[i] = new(any)
	}
	if err := c.rows.Scan(dest...); err != nil {
		return Value{}, false, err
	}

	items := make([]MapItem, 0, len(sqliteColumns))
	for i, col := range sqliteColumns {
		v := sqlValue(*(dest[i].(*any)), col)
		if v.IsNull() {
			continue
		}
		items = append(items, MapItem{Key: Str(col), Value: v})
	}
	return Value{Kind: KindMap, Map: items}, true, nil
}

// Close implements Cursor.
func (c *sqliteCursor) Close() error { return c.rows.Close() }

// crcFromHex parses a hex checksum string into a big-endian 4-byte
// binary field. Null when the string is not valid hex.
func crcFromHex(s string) Value {
	var crc uint64
	if len(s) == 0 || len(s) > 8 {
		return Null()
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			crc = crc<<4 | uint64(c-'0')
		case c >= 'a' && c <= 'f':
			crc = crc<<4 | uint64(c-'a'+10)
		case c >= 'A' && c <= 'F':
			crc = crc<<4 | uint64(c-'A'+10)
		default:
			return Null()
		}
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(crc))
	return Bin(buf[:])
}

// sqlValue converts a driver value into the record Value model. The crc
// column is normalized to a big-endian 4-byte binary field to match the
// RDB encoding.
func sqlValue(raw any, col string) Value {
	switch v := raw.(type) {
	case nil:
		return Null()
	case int64:
		if col == "crc" {
			var buf [4]byte
			binary.BigEndian.PutUint32(buf[:], uint32(v))
			return Bin(buf[:])
		}
		return Int(v)
	case string:
		if col == "crc" {
			return crcFromHex(v)
		}
		return Str(v)
	case []byte:
		if col == "crc" {
			return Bin(v)
		}
		return Str(string(v))
	default:
		return Null()
	}
}

package metadb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"
)

// RDB is the binary keyed-database format: a 7-byte magic, a big-endian
// 64-bit metadata offset, then a stream of msgpack-encoded map records up
// to the metadata offset. The trailing metadata map (record count) is not
// needed for a forward scan and is ignored.

const rdbMagic = "RARCHDB"

// rdb header: magic + uint64 metadata offset.
const rdbHeaderSize = len(rdbMagic) + 8

// ErrBadHeader is returned when a file is not an RDB database.
var ErrBadHeader = errors.New("metadb: bad rdb header")

// RDBFile is a memory-mapped RDB database.
type RDBFile struct {
	mf      *mappedFile
	path    string
	dataEnd int
}

// OpenRDB memory-maps the RDB file at path and validates its header.
func OpenRDB(path string) (*RDBFile, error) {
	mf, err := mmapReadOnly(path)
	if err != nil {
		return nil, err
	}
	data := mf.Bytes()
	if len(data) < rdbHeaderSize || string(data[:len(rdbMagic)]) != rdbMagic {
		_ = mf.Close()
		return nil, fmt.Errorf("%w: %s", ErrBadHeader, path)
	}
	metaOff := binary.BigEndian.Uint64(data[len(rdbMagic):rdbHeaderSize])
	end := len(data)
	if metaOff > 0 && metaOff < uint64(end) {
		end = int(metaOff)
	}
	return &RDBFile{mf: mf, path: path, dataEnd: end}, nil
}

// Cursor implements DB.
func (db *RDBFile) Cursor() (Cursor, error) {
	if db.mf == nil {
		return nil, fmt.Errorf("metadb: %s is closed", db.path)
	}
	return &rdbCursor{data: db.mf.Bytes()[:db.dataEnd], pos: rdbHeaderSize}, nil
}

// Close implements DB.
func (db *RDBFile) Close() error {
	mf := db.mf
	db.mf = nil
	return mf.Close()
}

type rdbCursor struct {
	data []byte
	pos  int
}

// Next implements Cursor.
func (c *rdbCursor) Next() (Value, bool, error) {
	if c.pos >= len(c.data) {
		return Value{}, false, nil
	}
	v, n, err := decodeValue(c.data[c.pos:])
	if err != nil {
		return Value{}, false, fmt.Errorf("metadb: record at offset %d: %w", c.pos, err)
	}
	c.pos += n
	if v.IsNull() {
		// A nil sentinel marks the end of the record stream.
		c.pos = len(c.data)
		return Value{}, false, nil
	}
	return v, true, nil
}

// Close implements Cursor.
func (c *rdbCursor) Close() error {
	c.data = nil
	return nil
}

var errTruncated = errors.New("truncated value")

// decodeValue decodes one msgpack value from the front of b and returns
// it with the number of bytes consumed. Strings alias b.
func decodeValue(b []byte) (Value, int, error) {
	if len(b) == 0 {
		return Value{}, 0, errTruncated
	}
	tag := b[0]

	switch {
	case tag <= 0x7f: // positive fixint
		return Int(int64(tag)), 1, nil
	case tag >= 0xe0: // negative fixint
		return Int(int64(int8(tag))), 1, nil
	case tag >= 0x80 && tag <= 0x8f: // fixmap
		return decodeMap(b[1:], int(tag&0x0f), 1)
	case tag >= 0x90 && tag <= 0x9f: // fixarray
		return decodeArray(b[1:], int(tag&0x0f), 1)
	case tag >= 0xa0 && tag <= 0xbf: // fixstr
		return decodeStr(b[1:], int(tag&0x1f), 1)
	}

	switch tag {
	case 0xc0:
		return Null(), 1, nil
	case 0xc2:
		return Bool(false), 1, nil
	case 0xc3:
		return Bool(true), 1, nil
	case 0xc4, 0xc5, 0xc6: // bin8/16/32
		width := 1 << (tag - 0xc4)
		n, err := readLen(b[1:], width)
		if err != nil {
			return Value{}, 0, err
		}
		head := 1 + width
		if len(b) < head+n {
			return Value{}, 0, errTruncated
		}
		return Bin(b[head : head+n : head+n]), head + n, nil
	case 0xcc, 0xcd, 0xce, 0xcf: // uint8/16/32/64
		width := 1 << (tag - 0xcc)
		if len(b) < 1+width {
			return Value{}, 0, errTruncated
		}
		return Uint(readUint(b[1:1+width])), 1 + width, nil
	case 0xd0, 0xd1, 0xd2, 0xd3: // int8/16/32/64
		width := 1 << (tag - 0xd0)
		if len(b) < 1+width {
			return Value{}, 0, errTruncated
		}
		u := readUint(b[1 : 1+width])
		// Sign-extend from the encoded width.
		shift := uint(64 - 8*width)
		return Int(int64(u<<shift) >> shift), 1 + width, nil
	case 0xd9, 0xda, 0xdb: // str8/16/32
		width := 1 << (tag - 0xd9)
		n, err := readLen(b[1:], width)
		if err != nil {
			return Value{}, 0, err
		}
		return decodeStr(b[1+width:], n, 1+width)
	case 0xdc, 0xdd: // array16/32
		width := 2 << (tag - 0xdc)
		n, err := readLen(b[1:], width)
		if err != nil {
			return Value{}, 0, err
		}
		return decodeArray(b[1+width:], n, 1+width)
	case 0xde, 0xdf: // map16/32
		width := 2 << (tag - 0xde)
		n, err := readLen(b[1:], width)
		if err != nil {
			return Value{}, 0, err
		}
		return decodeMap(b[1+width:], n, 1+width)
	}

	return Value{}, 0, fmt.Errorf("unsupported type tag 0x%02x", tag)
}

func decodeStr(b []byte, n, head int) (Value, int, error) {
	if len(b) < n {
		return Value{}, 0, errTruncated
	}
	if n == 0 {
		return Str(""), head, nil
	}
	return Str(unsafe.String(&b[0], n)), head + n, nil
}

func decodeArray(b []byte, n, head int) (Value, int, error) {
	arr := make([]Value, 0, n)
	used := 0
	for i := 0; i < n; i++ {
		v, sz, err := decodeValue(b[used:])
		if err != nil {
			return Value{}, 0, err
		}
		arr = append(arr, v)
		used += sz
	}
	return Value{Kind: KindArray, Arr: arr}, head + used, nil
}

func decodeMap(b []byte, n, head int) (Value, int, error) {
	items := make([]MapItem, 0, n)
	used := 0
	for i := 0; i < n; i++ {
		k, sz, err := decodeValue(b[used:])
		if err != nil {
			return Value{}, 0, err
		}
		used += sz
		v, sz, err := decodeValue(b[used:])
		if err != nil {
			return Value{}, 0, err
		}
		used += sz
		items = append(items, MapItem{Key: k, Value: v})
	}
	return Value{Kind: KindMap, Map: items}, head + used, nil
}

func readLen(b []byte, width int) (int, error) {
	if len(b) < width {
		return 0, errTruncated
	}
	n := readUint(b[:width])
	if n > uint64(len(b)) {
		return 0, errTruncated
	}
	return int(n), nil
}

func readUint(b []byte) uint64 {
	var u uint64
	for _, c := range b {
		u = u<<8 | uint64(c)
	}
	return u
}

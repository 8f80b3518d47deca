package metadb

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rdbFixture assembles an RDB file image: header, records, nil sentinel,
// then a trailing metadata map pointed at by the header offset.
func rdbFixture(records ...[]byte) []byte {
	var body []byte
	for _, r := range records {
		body = append(body, r...)
	}
	body = append(body, 0xc0) // end-of-records sentinel

	metaOff := uint64(rdbHeaderSize + len(body))
	out := []byte(rdbMagic)
	out = binary.BigEndian.AppendUint64(out, metaOff)
	out = append(out, body...)
	// Metadata map {"count": 2}, ignored by the cursor.
	out = append(out, 0x81, 0xa5, 'c', 'o', 'u', 'n', 't', 0x02)
	return out
}

func fixstr(s string) []byte {
	return append([]byte{0xa0 | byte(len(s))}, s...)
}

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.rdb")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpenRDBBadHeader(t *testing.T) {
	_, err := OpenRDB(writeTemp(t, []byte("NOTANRDBFILE AT ALL")))
	require.ErrorIs(t, err, ErrBadHeader)

	_, err = OpenRDB(writeTemp(t, []byte("RARCH")))
	require.ErrorIs(t, err, ErrBadHeader)
}

func TestRDBCursor(t *testing.T) {
	var rec1 []byte
	rec1 = append(rec1, 0x83) // fixmap, 3 pairs
	rec1 = append(rec1, fixstr("crc")...)
	rec1 = append(rec1, 0xc4, 0x04, 0xaa, 0xbb, 0xcc, 0xdd) // bin8
	rec1 = append(rec1, fixstr("publisher")...)
	rec1 = append(rec1, fixstr("Nintendo")...)
	rec1 = append(rec1, fixstr("releaseyear")...)
	rec1 = append(rec1, 0xcd, 0x07, 0xc1) // uint16 1985

	var rec2 []byte
	rec2 = append(rec2, 0x81) // fixmap, 1 pair
	rec2 = append(rec2, fixstr("genre")...)
	rec2 = append(rec2, 0xd9, 0x06) // str8
	rec2 = append(rec2, "Puzzle"...)

	db, err := OpenRDB(writeTemp(t, rdbFixture(rec1, rec2)))
	require.NoError(t, err)
	defer db.Close()

	cur, err := db.Cursor()
	require.NoError(t, err)
	defer cur.Close()

	rec, ok, err := cur.Next()
	require.NoError(t, err)
	require.True(t, ok)
	items, ok := rec.AsMap()
	require.True(t, ok)
	require.Len(t, items, 3)

	key, _ := items[0].Key.AsString()
	assert.Equal(t, "crc", key)
	bin, ok := items[0].Value.AsBinary()
	require.True(t, ok)
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc, 0xdd}, bin)

	pub, _ := items[1].Value.AsString()
	assert.Equal(t, "Nintendo", pub)

	year, ok := items[2].Value.AsInt64()
	require.True(t, ok)
	assert.Equal(t, int64(1985), year)

	rec, ok, err = cur.Next()
	require.NoError(t, err)
	require.True(t, ok)
	items, _ = rec.AsMap()
	require.Len(t, items, 1)
	genre, _ := items[0].Value.AsString()
	assert.Equal(t, "Puzzle", genre)

	// The nil sentinel ends the stream before the metadata map.
	_, ok, err = cur.Next()
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = cur.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRDBCursorAfterClose(t *testing.T) {
	db, err := OpenRDB(writeTemp(t, rdbFixture()))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = db.Cursor()
	require.Error(t, err)
}

func TestRDBCorruptRecord(t *testing.T) {
	db, err := OpenRDB(writeTemp(t, rdbFixture([]byte{0xc1})))
	require.NoError(t, err)
	defer db.Close()

	cur, err := db.Cursor()
	require.NoError(t, err)
	_, _, err = cur.Next()
	require.Error(t, err)
}

func TestDecodeValueScalars(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want Value
	}{
		{"positive fixint", []byte{0x07}, Int(7)},
		{"negative fixint", []byte{0xff}, Int(-1)},
		{"nil", []byte{0xc0}, Null()},
		{"false", []byte{0xc2}, Bool(false)},
		{"true", []byte{0xc3}, Bool(true)},
		{"uint8", []byte{0xcc, 0xfe}, Uint(254)},
		{"uint32", []byte{0xce, 0x00, 0x01, 0x00, 0x00}, Uint(65536)},
		{"int8 negative", []byte{0xd0, 0x80}, Int(-128)},
		{"int16 negative", []byte{0xd1, 0xff, 0x85}, Int(-123)},
		{"int64", []byte{0xd3, 0, 0, 0, 0, 0, 0, 0x30, 0x39}, Int(12345)},
		{"fixstr", fixstr("abc"), Str("abc")},
		{"empty fixstr", []byte{0xa0}, Str("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, n, err := decodeValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, len(tt.in), n)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestDecodeValueNested(t *testing.T) {
	// [1, "a", {"k": 2}]
	in := []byte{0x93, 0x01}
	in = append(in, fixstr("a")...)
	in = append(in, 0x81)
	in = append(in, fixstr("k")...)
	in = append(in, 0x02)

	v, n, err := decodeValue(in)
	require.NoError(t, err)
	assert.Equal(t, len(in), n)
	require.Equal(t, KindArray, v.Kind)
	require.Len(t, v.Arr, 3)

	inner, ok := v.Arr[2].AsMap()
	require.True(t, ok)
	require.Len(t, inner, 1)
	got, _ := inner[0].Value.AsInt64()
	assert.Equal(t, int64(2), got)
}

func TestDecodeValueTruncated(t *testing.T) {
	for _, in := range [][]byte{
		{},
		{0xcd, 0x01},             // uint16 missing a byte
		{0xa5, 'a', 'b'},         // fixstr shorter than its length
		{0xc4, 0x04, 0x01},       // bin8 shorter than its length
		{0x82, 0xa1, 'k', 0x01},  // fixmap missing second pair
	} {
		_, _, err := decodeValue(in)
		require.Error(t, err, "input %x", in)
	}
}

package metadb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteMissingFile(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "nope.db"))
	require.Error(t, err)
}

func TestSQLValue(t *testing.T) {
	assert.True(t, sqlValue(nil, "genre").IsNull())
	assert.Equal(t, Int(1985), sqlValue(int64(1985), "releaseyear"))
	assert.Equal(t, Str("Nintendo"), sqlValue("Nintendo", "publisher"))
	assert.Equal(t, Str("Action"), sqlValue([]byte("Action"), "genre"))

	// crc is normalized to big-endian binary regardless of storage type.
	assert.Equal(t, Bin([]byte{0xaa, 0xbb, 0xcc, 0xdd}), sqlValue(int64(0xaabbccdd), "crc"))
	assert.Equal(t, Bin([]byte{0xaa, 0xbb, 0xcc, 0xdd}), sqlValue("AABBCCDD", "crc"))
	assert.Equal(t, Bin([]byte{0x01, 0x02, 0x03, 0x04}), sqlValue([]byte{0x01, 0x02, 0x03, 0x04}, "crc"))

	// Short hex strings are zero-extended, junk is dropped.
	assert.Equal(t, Bin([]byte{0x00, 0x00, 0x00, 0x12}), sqlValue("12", "crc"))
	assert.True(t, sqlValue("not hex", "crc").IsNull())
	assert.True(t, sqlValue("", "crc").IsNull())
	assert.True(t, sqlValue(3.14, "crc").IsNull())
}

func TestFileOpenerNotFound(t *testing.T) {
	o := FileOpener{Dir: t.TempDir()}
	_, err := o.Open("Nintendo - NES")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileOpenerPrefersRDB(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Sega - MD.rdb")
	require.NoError(t, os.WriteFile(path, rdbFixture(), 0o644))

	o := FileOpener{Dir: dir}
	db, err := o.Open("Sega - MD")
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

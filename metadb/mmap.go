package metadb

import (
	"fmt"
	"reflect"
	"unsafe"

	"golang.org/x/exp/mmap"
)

// mappedFile is a read-only memory-mapped file.
//
// The Bytes slice aliases the mapped region; any views into it become
// invalid after Close. The RDB reader keeps the mapping alive for the
// lifetime of the database handle so record fields can be decoded as
// views into the file instead of copies.
type mappedFile struct {
	r    *mmap.ReaderAt
	data []byte
}

func mmapReadOnly(path string) (*mappedFile, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	sz := r.Len()
	if sz <= 0 {
		_ = r.Close()
		return nil, fmt.Errorf("metadb: empty file %s", path)
	}
	data, err := readerAtBytes(r)
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	if len(data) != sz {
		_ = r.Close()
		return nil, fmt.Errorf("metadb: unexpected mapping size: got %d, want %d", len(data), sz)
	}
	return &mappedFile{r: r, data: data}, nil
}

// readerAtBytes exposes the mapped []byte behind mmap.ReaderAt.
//
// golang.org/x/exp/mmap intentionally exposes only ReaderAt APIs; for a
// zero-copy record decoder we need the underlying slice. This reads the
// unexported `data []byte` field and fails fast with a clear error if the
// upstream layout ever changes.
func readerAtBytes(r *mmap.ReaderAt) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("metadb: nil mmap reader")
	}
	v := reflect.ValueOf(r)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil, fmt.Errorf("metadb: unexpected mmap reader kind")
	}
	e := v.Elem()
	if e.Kind() != reflect.Struct {
		return nil, fmt.Errorf("metadb: unexpected mmap reader layout")
	}
	f := e.FieldByName("data")
	if !f.IsValid() || f.Kind() != reflect.Slice || f.Type().Elem().Kind() != reflect.Uint8 {
		return nil, fmt.Errorf("metadb: unsupported golang.org/x/exp/mmap version (missing data field)")
	}
	if !f.CanAddr() {
		return nil, fmt.Errorf("metadb: cannot address mmap reader data")
	}
	return *(*[]byte)(unsafe.Pointer(f.UnsafeAddr())), nil
}

func (m *mappedFile) Bytes() []byte {
	if m == nil {
		return nil
	}
	return m.data
}

func (m *mappedFile) Close() error {
	if m == nil {
		return nil
	}
	m.data = nil
	if m.r != nil {
		err := m.r.Close()
		m.r = nil
		return err
	}
	return nil
}

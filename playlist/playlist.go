// Package playlist reads user-curated collection files.
//
// A playlist is a JSON document listing content entries with a display
// label, a content checksum, and the name of the metadata database the
// entry belongs to. Playlists may be stored zstd- or lz4-compressed;
// decompression is transparent based on the file extension.
package playlist

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Entry is one record of a playlist.
type Entry struct {
	// Path is the content path.
	Path string `json:"path"`
	// Label is the display label.
	Label string `json:"label"`
	// CorePath is the path of the core configured for this entry.
	CorePath string `json:"core_path"`
	// CoreName is the display name of the core configured for this entry.
	CoreName string `json:"core_name"`
	// CRC32 is the content checksum in "XXXXXXXX|crc" notation. It may be
	// empty when the content was never hashed.
	CRC32 string `json:"crc32"`
	// DBName names the metadata database this entry belongs to, including
	// the playlist file extension (e.g. "Sega - Mega Drive.lpl").
	DBName string `json:"db_name"`
}

// Checksum parses the leading hex digits of the CRC32 field. ok is false
// when the field is empty or does not start with a hex digit.
func (e *Entry) Checksum() (uint32, bool) {
	var crc uint32
	n := 0
	for n < len(e.CRC32) && n < 8 {
		c := e.CRC32[n]
		switch {
		case c >= '0' && c <= '9':
			crc = crc<<4 | uint32(c-'0')
		case c >= 'a' && c <= 'f':
			crc = crc<<4 | uint32(c-'a'+10)
		case c >= 'A' && c <= 'F':
			crc = crc<<4 | uint32(c-'A'+10)
		default:
			if n == 0 {
				return 0, false
			}
			return crc, true
		}
		n++
	}
	if n == 0 {
		return 0, false
	}
	return crc, true
}

// DBTag returns the database tag for this entry: the DBName with its file
// extension stripped. Empty when DBName is empty.
func (e *Entry) DBTag() string {
	name := e.DBName
	if ext := filepath.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}
	return name
}

// Playlist is an ordered, named collection of entries.
type Playlist struct {
	Name  string  `json:"-"`
	Items []Entry `json:"items"`
}

// Size returns the number of entries.
func (p *Playlist) Size() int { return len(p.Items) }

// Load reads the playlist file at path. Files ending in .zst or .lz4 are
// decompressed on the fly.
func Load(path string) (*Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("playlist: %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
		name = strings.TrimSuffix(name, filepath.Ext(name))
	case ".lz4":
		r = lz4.NewReader(f)
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	var p Playlist
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("playlist: %s: %w", path, err)
	}
	p.Name = strings.TrimSuffix(name, filepath.Ext(name))
	return &p, nil
}

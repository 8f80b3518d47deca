package playlist

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store enumerates named collections.
type Store interface {
	// Playlists loads every available playlist. Unreadable files are
	// skipped, not errors; a missing directory yields an empty result.
	Playlists() ([]*Playlist, error)
}

// DirStore reads playlists from a directory. Recognized file names are
// *.lpl, *.lpl.zst and *.lpl.lz4.
type DirStore struct {
	// Dir is the playlist directory.
	Dir string
	// Logger receives skip warnings. Nil disables logging.
	Logger *slog.Logger
}

func (s DirStore) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func isPlaylistFile(name string) bool {
	n := strings.ToLower(name)
	n = strings.TrimSuffix(n, ".zst")
	n = strings.TrimSuffix(n, ".lz4")
	return strings.HasSuffix(n, ".lpl")
}

// Playlists implements Store.
func (s DirStore) Playlists() ([]*Playlist, error) {
	dents, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []*Playlist
	for _, d := range dents {
		if d.IsDir() || !isPlaylistFile(d.Name()) {
			continue
		}
		path := filepath.Join(s.Dir, d.Name())
		p, err := Load(path)
		if err != nil {
			s.log().Warn("skipping unreadable playlist", "path", path, "error", err)
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Slice is an in-memory Store, mainly for tests and embedding hosts.
type Slice []*Playlist

// Playlists implements Store.
func (s Slice) Playlists() ([]*Playlist, error) { return s, nil }

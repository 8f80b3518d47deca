package facetgo

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/facetgo/facet"
	"github.com/hupe1980/facetgo/metadb"
	"github.com/hupe1980/facetgo/playlist"
	"github.com/hupe1980/facetgo/registry"
)

type memDB struct {
	recs []metadb.Value
}

func (d *memDB) Cursor() (metadb.Cursor, error) { return &memCursor{recs: d.recs}, nil }
func (d *memDB) Close() error                   { return nil }

type memCursor struct {
	recs []metadb.Value
	pos  int
}

func (c *memCursor) Next() (metadb.Value, bool, error) {
	if c.pos >= len(c.recs) {
		return metadb.Value{}, false, nil
	}
	rec := c.recs[c.pos]
	c.pos++
	return rec, true, nil
}

func (c *memCursor) Close() error { return nil }

// countingOpener tracks how many times tags are resolved, which exposes
// how many builds actually ran.
type countingOpener struct {
	mu    sync.Mutex
	opens int
	dbs   map[string][]metadb.Value
}

func (o *countingOpener) Open(tag string) (metadb.DB, error) {
	o.mu.Lock()
	o.opens++
	o.mu.Unlock()
	recs, ok := o.dbs[tag]
	if !ok {
		return nil, metadb.ErrNotFound
	}
	return &memDB{recs: recs}, nil
}

func testExplorer(t *testing.T, opts ...Option) (*Explorer, *countingOpener) {
	t.Helper()

	store := playlist.Slice{
		{
			Name: "nes",
			Items: []playlist.Entry{
				{
					Label:    "Super Mario Bros.",
					CoreName: "Nestopia",
					CRC32:    "AABBCCDD|crc",
					DBName:   "Nintendo - NES.lpl",
				},
				{
					Label:    "The Legend of Zelda",
					CoreName: "Nestopia",
					CRC32:    "11223344|crc",
					DBName:   "Nintendo - NES.lpl",
				},
			},
		},
	}
	opener := &countingOpener{dbs: map[string][]metadb.Value{
		"Nintendo - NES": {
			metadb.MapOf(
				"crc", metadb.Bin([]byte{0xaa, 0xbb, 0xcc, 0xdd}),
				"publisher", metadb.Str("Nintendo"),
				"genre", metadb.Str("Platformer"),
			),
			metadb.MapOf(
				"crc", metadb.Bin([]byte{0x11, 0x22, 0x33, 0x44}),
				"publisher", metadb.Str("Nintendo"),
				"genre", metadb.Str("Action / Adventure"),
			),
		},
	}}
	reg := registry.FromMap(map[string]string{"Nestopia": "Nintendo Entertainment System"})

	opts = append([]Option{WithRegistry(reg)}, opts...)
	ex := New(store, opener, opts...)
	t.Cleanup(func() { _ = ex.Close() })
	return ex, opener
}

func TestExplorerLazyBuildOnce(t *testing.T) {
	ex, opener := testExplorer(t)
	ctx := context.Background()

	entries, err := ex.Entries(ctx, nil, "")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// A second query reuses the built index.
	entries, err = ex.Entries(ctx, nil, "mario")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, opener.opens)
}

func TestExplorerConcurrentFirstQuery(t *testing.T) {
	ex, opener := testExplorer(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ex.Entries(ctx, nil, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, opener.opens)
}

func TestExplorerValue(t *testing.T) {
	ex, _ := testExplorer(t)
	ctx := context.Background()

	v, err := ex.Value(ctx, facet.Publisher, "nintendo")
	require.NoError(t, err)
	assert.Equal(t, "Nintendo", v.Label)

	_, err = ex.Value(ctx, facet.Publisher, "Sega")
	require.ErrorIs(t, err, ErrValueNotFound)
}

func TestExplorerDistinctValues(t *testing.T) {
	ex, _ := testExplorer(t)
	ctx := context.Background()

	pub, err := ex.Value(ctx, facet.Publisher, "Nintendo")
	require.NoError(t, err)

	values, hasUnknown, err := ex.DistinctValues(ctx,
		[]facet.Constraint{facet.Is(pub)}, facet.Genre, "")
	require.NoError(t, err)
	assert.False(t, hasUnknown)

	got := make([]string, len(values))
	for i, v := range values {
		got[i] = v.Label
	}
	assert.Equal(t, []string{"Action", "Platformer"}, got)
}

func TestExplorerInvalidateRebuilds(t *testing.T) {
	mc := &BasicMetricsCollector{}
	ex, opener := testExplorer(t, WithMetricsCollector(mc))
	ctx := context.Background()

	require.NoError(t, ex.Build(ctx))
	ex.Invalidate("test")

	_, err := ex.Entries(ctx, nil, "")
	require.NoError(t, err)

	assert.Equal(t, 2, opener.opens)
	assert.Equal(t, int64(2), mc.BuildCount.Load())
	assert.Equal(t, int64(1), mc.InvalidateCount.Load())
}

func TestExplorerQueryDuringInvalidate(t *testing.T) {
	ex, _ := testExplorer(t)
	ctx := context.Background()
	require.NoError(t, ex.Build(ctx))

	// Queries racing with invalidation must keep seeing a complete
	// index: either the one they started with or a freshly built one.
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				entries, err := ex.Entries(ctx, nil, "")
				if !assert.NoError(t, err) {
					return
				}
				assert.Len(t, entries, 2)

				values, _, err := ex.DistinctValues(ctx, nil, facet.Genre, "")
				if !assert.NoError(t, err) {
					return
				}
				assert.Len(t, values, 2)
			}
		}()
	}

	for i := 0; i < 50; i++ {
		ex.Invalidate("refresh")
	}
	close(done)
	wg.Wait()
}

func TestExplorerBuildNoopWhenCurrent(t *testing.T) {
	ex, opener := testExplorer(t)
	ctx := context.Background()

	require.NoError(t, ex.Build(ctx))
	require.NoError(t, ex.Build(ctx))
	assert.Equal(t, 1, opener.opens)
}

func TestExplorerClose(t *testing.T) {
	ex, _ := testExplorer(t)
	ctx := context.Background()

	require.NoError(t, ex.Build(ctx))
	require.NoError(t, ex.Close())
	require.NoError(t, ex.Close())

	_, err := ex.Entries(ctx, nil, "")
	require.ErrorIs(t, err, ErrClosed)
	_, _, err = ex.DistinctValues(ctx, nil, facet.Genre, "")
	require.ErrorIs(t, err, ErrClosed)
}

func TestExplorerBuildError(t *testing.T) {
	ex := New(playlist.Slice{}, nil)
	t.Cleanup(func() { _ = ex.Close() })

	require.Error(t, ex.Build(context.Background()))
}

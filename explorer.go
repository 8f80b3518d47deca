package facetgo

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/facetgo/facet"
	"github.com/hupe1980/facetgo/metadb"
	"github.com/hupe1980/facetgo/playlist"
)

// Explorer is the top-level faceted browsing handle.
//
// It owns at most one frozen index at a time, builds it lazily on first
// use, and answers navigation queries against it. All methods are safe
// for concurrent use.
type Explorer struct {
	store  playlist.Store
	opener metadb.Opener
	opts   options

	state  atomic.Pointer[facet.State]
	group  singleflight.Group
	closed atomic.Bool

	watcher *watcher
}

// New creates an Explorer over the given playlist store and database
// opener. No indexing work happens until the first query or an explicit
// Build call.
func New(store playlist.Store, opener metadb.Opener, optFns ...Option) *Explorer {
	opts := options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	ex := &Explorer{
		store:  store,
		opener: opener,
		opts:   opts,
	}
	if len(opts.watchDirs) > 0 {
		w, err := newWatcher(opts.watchDirs, ex.onFileEvent, opts.logger)
		if err != nil {
			opts.logger.Warn("filesystem watcher unavailable", "error", err)
		} else {
			ex.watcher = w
		}
	}
	return ex
}

// Build forces an index build now instead of on first query. It is a
// no-op when a current index already exists.
func (ex *Explorer) Build(ctx context.Context) error {
	_, err := ex.ensure(ctx)
	return err
}

// State returns the current frozen index, building it first if needed.
// The returned State is shared and remains readable even if the Explorer
// invalidates or replaces it; callers must not Release it.
func (ex *Explorer) State(ctx context.Context) (*facet.State, error) {
	return ex.ensure(ctx)
}

// ensure returns the current index, running at most one build at a time.
// Concurrent callers during a build all wait for the same result.
func (ex *Explorer) ensure(ctx context.Context) (*facet.State, error) {
	if ex.closed.Load() {
		return nil, ErrClosed
	}
	if s := ex.state.Load(); s != nil {
		return s, nil
	}

	v, err, _ := ex.group.Do("build", func() (interface{}, error) {
		if s := ex.state.Load(); s != nil {
			return s, nil
		}

		start := time.Now()
		s, err := facet.Build(ctx, facet.BuildOptions{
			Store:    ex.store,
			Opener:   ex.opener,
			Registry: ex.opts.registry,
			Logger:   ex.opts.logger.Logger,
		})
		entries := 0
		if s != nil {
			entries = s.Len()
		}
		ex.opts.logger.LogBuild(ctx, entries, time.Since(start), err)
		ex.opts.metrics.RecordBuild(entries, time.Since(start), err)
		if err != nil {
			return nil, err
		}

		// Publish the new index. A replaced index is never released
		// here: queries already running against it keep their reference
		// and the collector reclaims it once they return.
		ex.state.Store(s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*facet.State), nil
}

// Entries returns every indexed entry satisfying the constraints whose
// label contains find as a case-insensitive substring. An empty
// constraint list and an empty find return the whole library in
// label-sorted order.
func (ex *Explorer) Entries(ctx context.Context, cons []facet.Constraint, find string) ([]*facet.Entry, error) {
	s, err := ex.ensure(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	out := s.Entries(cons, find)
	ex.opts.logger.LogQuery(ctx, "entries", len(cons), len(out))
	ex.opts.metrics.RecordQuery("entries", len(out), time.Since(start))
	return out, nil
}

// DistinctValues returns the distinct values of target among entries
// satisfying the constraints and free-text filter, in the category's
// sorted order, plus whether an "unknown" bucket is non-empty.
func (ex *Explorer) DistinctValues(ctx context.Context, cons []facet.Constraint, target facet.Category, find string) ([]*facet.Value, bool, error) {
	s, err := ex.ensure(ctx)
	if err != nil {
		return nil, false, err
	}
	start := time.Now()
	values, hasUnknown := s.DistinctValues(cons, find, target)
	ex.opts.logger.LogQuery(ctx, "values", len(cons), len(values))
	ex.opts.metrics.RecordQuery("values", len(values), time.Since(start))
	return values, hasUnknown, nil
}

// Value resolves a label to the canonical facet value of cat, matching
// case-insensitively. Returns ErrValueNotFound when the library has no
// such value.
func (ex *Explorer) Value(ctx context.Context, cat facet.Category, label string) (*facet.Value, error) {
	s, err := ex.ensure(ctx)
	if err != nil {
		return nil, err
	}
	v := s.ValueOf(cat, label)
	if v == nil {
		return nil, ErrValueNotFound
	}
	return v, nil
}

// Invalidate drops the current index so the next query rebuilds it from
// the sources. Queries already running against the dropped index finish
// normally; it is garbage collected once the last of them returns.
func (ex *Explorer) Invalidate(reason string) {
	if old := ex.state.Swap(nil); old != nil {
		ex.opts.logger.LogInvalidate(context.Background(), reason)
		ex.opts.metrics.RecordInvalidate()
	}
}

func (ex *Explorer) onFileEvent(name string) {
	ex.Invalidate("filesystem change: " + name)
}

// Close drops the index and stops the filesystem watcher. The Explorer
// must not be used afterwards.
func (ex *Explorer) Close() error {
	if !ex.closed.CompareAndSwap(false, true) {
		return nil
	}
	var err error
	if ex.watcher != nil {
		err = ex.watcher.close()
	}
	ex.state.Store(nil)
	return err
}

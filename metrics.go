package facetgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordBuild is called after each index build.
	// entries is the number of indexed entries, duration the total build
	// time, err is nil if successful.
	RecordBuild(entries int, duration time.Duration, err error)

	// RecordQuery is called after each query.
	// view is "entries" or "values", results the number of results.
	RecordQuery(view string, results int, duration time.Duration)

	// RecordInvalidate is called when the index is invalidated.
	RecordInvalidate()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordQuery(string, int, time.Duration)   {}
func (NoopMetricsCollector) RecordInvalidate()                        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildTotalNanos  atomic.Int64
	IndexedEntries   atomic.Int64
	QueryCount       atomic.Int64
	QueryTotalNanos  atomic.Int64
	InvalidateCount  atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(entries int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.IndexedEntries.Store(int64(entries))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(view string, results int, duration time.Duration) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
}

// RecordInvalidate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInvalidate() {
	b.InvalidateCount.Add(1)
}

package main

import (
	"fmt"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// vmCollector exports build and query metrics in Prometheus format via
// the VictoriaMetrics metrics package.
type vmCollector struct {
	builds        *metrics.Counter
	buildErrors   *metrics.Counter
	buildDuration *metrics.Histogram
	entries       *metrics.Gauge
	invalidations *metrics.Counter

	lastEntries int
}

func newVMCollector() *vmCollector {
	c := &vmCollector{
		builds:        metrics.GetOrCreateCounter("facetgo_builds_total"),
		buildErrors:   metrics.GetOrCreateCounter("facetgo_build_errors_total"),
		buildDuration: metrics.GetOrCreateHistogram("facetgo_build_duration_seconds"),
		invalidations: metrics.GetOrCreateCounter("facetgo_invalidations_total"),
	}
	c.entries = metrics.GetOrCreateGauge("facetgo_indexed_entries", func() float64 {
		return float64(c.lastEntries)
	})
	return c
}

func (c *vmCollector) RecordBuild(entries int, duration time.Duration, err error) {
	c.builds.Inc()
	c.buildDuration.Update(duration.Seconds())
	if err != nil {
		c.buildErrors.Inc()
		return
	}
	c.lastEntries = entries
}

func (c *vmCollector) RecordQuery(view string, results int, duration time.Duration) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`facetgo_queries_total{view=%q}`, view)).Inc()
	metrics.GetOrCreateHistogram(fmt.Sprintf(`facetgo_query_duration_seconds{view=%q}`, view)).Update(duration.Seconds())
}

func (c *vmCollector) RecordInvalidate() {
	c.invalidations.Inc()
}

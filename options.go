package facetgo

import "github.com/hupe1980/facetgo/registry"

type options struct {
	logger    *Logger
	metrics   MetricsCollector
	registry  *registry.Registry
	watchDirs []string
}

// Option configures Explorer behavior.
type Option func(*options)

// WithLogger configures structured logging. If nil is passed, logging is
// disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// builds and queries. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithRegistry configures the core registry used to resolve the System
// category. Without it every entry has an unknown System.
func WithRegistry(r *registry.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithWatch configures directories to watch for changes; any create,
// write, rename or remove below them invalidates the index so the next
// query rebuilds it. Typically the playlist directory.
func WithWatch(dirs ...string) Option {
	return func(o *options) {
		o.watchDirs = append(o.watchDirs, dirs...)
	}
}

// Package registry maps core display names to the platform/system names
// they implement.
//
// The host owns registration; the index builder only performs lookups to
// populate the System category. The registry is safe for concurrent use
// so hosts may register cores while queries are running.
package registry

import "github.com/puzpuzpuz/xsync/v3"

// Registry is a concurrent display-name → system-name table.
type Registry struct {
	m *xsync.MapOf[string, string]
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{m: xsync.NewMapOf[string, string]()}
}

// FromMap returns a Registry pre-populated from m.
func FromMap(m map[string]string) *Registry {
	r := New()
	for name, system := range m {
		r.Register(name, system)
	}
	return r
}

// Register associates a core display name with a system name.
func (r *Registry) Register(displayName, systemName string) {
	r.m.Store(displayName, systemName)
}

// Lookup returns the system name for a core display name.
func (r *Registry) Lookup(displayName string) (string, bool) {
	if r == nil || displayName == "" {
		return "", false
	}
	return r.m.Load(displayName)
}

// Len returns the number of registered cores.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return r.m.Size()
}

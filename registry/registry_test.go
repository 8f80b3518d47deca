package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLookup(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.Len())

	r.Register("Nestopia", "Nintendo Entertainment System")
	r.Register("Genesis Plus GX", "Sega Mega Drive")

	system, ok := r.Lookup("Nestopia")
	require.True(t, ok)
	assert.Equal(t, "Nintendo Entertainment System", system)

	_, ok = r.Lookup("Unknown Core")
	assert.False(t, ok)
	_, ok = r.Lookup("")
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len())

	// Re-registering replaces the mapping.
	r.Register("Nestopia", "Famicom")
	system, _ = r.Lookup("Nestopia")
	assert.Equal(t, "Famicom", system)
	assert.Equal(t, 2, r.Len())
}

func TestFromMap(t *testing.T) {
	r := FromMap(map[string]string{"a": "A", "b": "B"})
	assert.Equal(t, 2, r.Len())
	system, ok := r.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "B", system)
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	_, ok := r.Lookup("anything")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestConcurrentAccess(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Register("core", "system")
				r.Lookup("core")
			}
		}()
	}
	wg.Wait()

	system, ok := r.Lookup("core")
	require.True(t, ok)
	assert.Equal(t, "system", system)
}

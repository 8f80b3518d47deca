package intmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash32(t *testing.T) {
	// FNV-1a reference values.
	assert.Equal(t, uint32(0x811c9dc5), Hash32(""))
	assert.Equal(t, uint32(0xe40c292c), Hash32("a"))
	assert.Equal(t, uint32(0xbf9cf968), Hash32("foobar"))

	assert.NotEqual(t, Hash32("Nintendo"), Hash32("nintendo"))
	assert.NotZero(t, Hash32("anything"))
}

func TestHash32FoldedRange(t *testing.T) {
	h := func(s string) uint32 { return Hash32FoldedRange(s, '0', 0xff) }

	// Case variants collide.
	assert.Equal(t, h("Nintendo"), h("NINTENDO"))
	assert.Equal(t, h("nintendo"), h("Nintendo"))

	// Bytes below '0' (spaces, punctuation) do not contribute.
	assert.Equal(t, h("Nintendo"), h("Nin tendo"))
	assert.Equal(t, h("act-ion"), h("action"))

	// Distinct words still hash apart.
	assert.NotEqual(t, h("Nintendo"), h("Sega"))
	assert.NotZero(t, h(""))
	assert.Equal(t, uint32(fnvOffset32), h("  ./"))
}

package hasher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"MultilinearPCS/modules/fields"
)

func TestHashDeterministic(t *testing.T) {
	h := NewMiMC()
	in := fields.RandomVector(4)
	a := h.Hash(in...)
	b := h.Hash(in...)
	require.True(t, a.Equal(&b))

	in[2] = fields.Random()
	c := h.Hash(in...)
	require.False(t, a.Equal(&c))
}

func TestHashSensitiveToLength(t *testing.T) {
	h := NewMiMC()
	in := fields.RandomVector(3)
	a := h.Hash(in...)
	b := h.Hash(in[:2]...)
	require.False(t, a.Equal(&b))
}

func TestCompressOrdered(t *testing.T) {
	h := NewMiMC()
	x, y := fields.Random(), fields.Random()
	ab := h.Compress(x, y)
	ba := h.Compress(y, x)
	require.False(t, ab.Equal(&ba))

	again := h.Compress(x, y)
	require.True(t, ab.Equal(&again))
}

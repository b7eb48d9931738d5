package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"MultilinearPCS/modules/fields"
	"MultilinearPCS/modules/hasher"
)

func TestOpenVerifyRoundTrip(t *testing.T) {
	h := hasher.NewMiMC()
	leaves := fields.RandomVector(32)
	tree, err := Commit(leaves, h)
	require.NoError(t, err)
	require.Equal(t, 5, tree.Depth())

	for i := range leaves {
		p, err := tree.Open(i)
		require.NoError(t, err)
		require.True(t, p.Leaf.Equal(&leaves[i]))
		require.NoError(t, Verify(h, tree.Root(), i, p, tree.Depth()))
	}
}

func TestOpenMany(t *testing.T) {
	h := hasher.NewMiMC()
	tree, err := Commit(fields.RandomVector(16), h)
	require.NoError(t, err)

	indices := []int{0, 7, 7, 15}
	proofs, err := tree.OpenMany(indices)
	require.NoError(t, err)
	for i, idx := range indices {
		require.NoError(t, Verify(h, tree.Root(), idx, proofs[i], tree.Depth()))
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	h := hasher.NewMiMC()
	tree, err := Commit(fields.RandomVector(16), h)
	require.NoError(t, err)
	p, err := tree.Open(5)
	require.NoError(t, err)

	// wrong leaf
	bad := p
	bad.Leaf = fields.Random()
	require.ErrorIs(t, Verify(h, tree.Root(), 5, bad, tree.Depth()), ErrVerification)

	// wrong sibling
	bad = p
	bad.Siblings = append([]fields.Element(nil), p.Siblings...)
	bad.Siblings[2] = fields.Random()
	require.ErrorIs(t, Verify(h, tree.Root(), 5, bad, tree.Depth()), ErrVerification)

	// wrong index
	require.ErrorIs(t, Verify(h, tree.Root(), 6, p, tree.Depth()), ErrVerification)

	// truncated path
	bad = p
	bad.Siblings = p.Siblings[:3]
	require.ErrorIs(t, Verify(h, tree.Root(), 5, bad, tree.Depth()), ErrVerification)

	// out-of-range index
	require.ErrorIs(t, Verify(h, tree.Root(), 16, p, tree.Depth()), ErrVerification)
}

func TestCommitRejectsBadLeafCount(t *testing.T) {
	h := hasher.NewMiMC()
	_, err := Commit(fields.RandomVector(12), h)
	require.ErrorIs(t, err, ErrShape)
	_, err = Commit(nil, h)
	require.ErrorIs(t, err, ErrShape)
}

// Package merkle implements the arity-2 vector commitment over field
// element leaves. The committer retains every internal level so later
// openings cost O(log N) lookups; the verifier recomputes the root from a
// leaf and its sibling path with a pluggable two-to-one compression.
package merkle

import (
	"errors"
	"fmt"
	"math/bits"

	"MultilinearPCS/modules/fields"
	"MultilinearPCS/modules/hasher"
	"MultilinearPCS/modules/parallel"
)

// ErrVerification reports an opening that does not recompute the committed
// root, an out-of-range index, or a malformed path.
var ErrVerification = errors.New("merkle: verification failed")

// ErrShape reports an invalid leaf count at commit time.
var ErrShape = errors.New("merkle: leaf count is not a power of two")

// Tree is the committer-side state: levels[0] holds the leaf digests and
// levels[depth] holds the single root.
type Tree struct {
	h      hasher.FieldHasher
	leaves []fields.Element
	levels [][]fields.Element
}

// Commit builds the hash tree bottom-up over the leaves. The leaf slice is
// retained, not copied.
func Commit(leaves []fields.Element, h hasher.FieldHasher) (*Tree, error) {
	n := len(leaves)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: got %d leaves", ErrShape, n)
	}

	depth := bits.TrailingZeros(uint(n))
	t := &Tree{h: h, leaves: leaves, levels: make([][]fields.Element, depth+1)}

	t.levels[0] = make([]fields.Element, n)
	parallel.Execute(n, func(start, end int) {
		for i := start; i < end; i++ {
			t.levels[0][i] = h.Hash(leaves[i])
		}
	})

	for l := 1; l <= depth; l++ {
		below := t.levels[l-1]
		level := make([]fields.Element, len(below)/2)
		parallel.Execute(len(level), func(start, end int) {
			for i := start; i < end; i++ {
				level[i] = h.Compress(below[2*i], below[2*i+1])
			}
		})
		t.levels[l] = level
	}
	return t, nil
}

// Root returns the commitment digest.
func (t *Tree) Root() fields.Element {
	return t.levels[len(t.levels)-1][0]
}

// Depth returns log2 of the leaf count.
func (t *Tree) Depth() int {
	return len(t.levels) - 1
}

// Proof is one leaf opening: the leaf value and the sibling digests from
// the bottom level up to (excluding) the root.
type Proof struct {
	Leaf     fields.Element
	Siblings []fields.Element
}

// Open returns the opening of the leaf at index.
func (t *Tree) Open(index int) (Proof, error) {
	if index < 0 || index >= len(t.leaves) {
		return Proof{}, fmt.Errorf("%w: index %d out of range", ErrVerification, index)
	}
	p := Proof{Leaf: t.leaves[index], Siblings: make([]fields.Element, t.Depth())}
	for l := 0; l < t.Depth(); l++ {
		p.Siblings[l] = t.levels[l][index^1]
		index >>= 1
	}
	return p, nil
}

// OpenMany opens several indices. Shared sibling digests are transmitted
// redundantly; correctness does not depend on de-duplication.
func (t *Tree) OpenMany(indices []int) ([]Proof, error) {
	proofs := make([]Proof, len(indices))
	for i, idx := range indices {
		p, err := t.Open(idx)
		if err != nil {
			return nil, err
		}
		proofs[i] = p
	}
	return proofs, nil
}

// Verify recomputes the root from an opening. The path length must equal
// depth, the expected log2 of the committed leaf count.
func Verify(h hasher.FieldHasher, root fields.Element, index int, p Proof, depth int) error {
	if len(p.Siblings) != depth {
		return fmt.Errorf("%w: path length %d, expected %d", ErrVerification, len(p.Siblings), depth)
	}
	if index < 0 || index >= 1<<depth {
		return fmt.Errorf("%w: index %d out of range for depth %d", ErrVerification, index, depth)
	}

	cur := h.Hash(p.Leaf)
	for _, sib := range p.Siblings {
		if index&1 == 1 {
			cur = h.Compress(sib, cur)
		} else {
			cur = h.Compress(cur, sib)
		}
		index >>= 1
	}
	if !cur.Equal(&root) {
		return fmt.Errorf("%w: recomputed root mismatch", ErrVerification)
	}
	return nil
}

// Package hasher exposes the digest primitives the commitment and
// transcript layers depend on. Digests are field elements, so a
// field-friendly hash serves both the vector commitment and the
// Fiat-Shamir channel with one primitive.
package hasher

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"

	"MultilinearPCS/modules/fields"
)

// FieldHasher hashes field elements into a single field element digest.
// Implementations must be deterministic, collision-resistant, and safe for
// concurrent use.
type FieldHasher interface {
	// Hash absorbs the elements in order and squeezes one digest.
	Hash(elems ...fields.Element) fields.Element
	// Compress is the two-to-one combiner used on internal tree nodes.
	Compress(a, b fields.Element) fields.Element
}

// MiMC implements FieldHasher over gnark-crypto's native MiMC permutation.
// The zero value is ready to use; every call runs on a fresh hash state, so
// a single instance may be shared across goroutines.
type MiMC struct{}

// NewMiMC returns a MiMC field hasher.
func NewMiMC() MiMC {
	return MiMC{}
}

func (MiMC) Hash(elems ...fields.Element) fields.Element {
	h := mimc.NewMiMC()
	for i := range elems {
		b := elems[i].Bytes()
		// canonical element bytes never fail the block check
		_, _ = h.Write(b[:])
	}
	var out fields.Element
	out.SetBytes(h.Sum(nil))
	return out
}

func (m MiMC) Compress(a, b fields.Element) fields.Element {
	return m.Hash(a, b)
}

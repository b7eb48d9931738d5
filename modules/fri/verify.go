package fri

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"MultilinearPCS/modules/fields"
	"MultilinearPCS/modules/hasher"
	"MultilinearPCS/modules/merkle"
	"MultilinearPCS/modules/polynomial"
	"MultilinearPCS/modules/transcript"
)

// ErrFoldConsistency reports opened values that do not satisfy the folding
// relation, including the terminal comparison against the explicit final
// polynomial.
var ErrFoldConsistency = errors.New("fri: fold consistency check failed")

// Verifier checks query openings against layer roots and the final
// polynomial for one codeword geometry.
type Verifier struct {
	params Params
	h      hasher.FieldHasher
	logLen int
	gen    fields.Element
	genInv fields.Element
	twoInv fields.Element
}

// NewVerifier prepares a verifier for codewords of a polynomial over
// logPolyLen variables (log-degree logPolyLen).
func NewVerifier(params Params, h hasher.FieldHasher, logPolyLen int) (*Verifier, error) {
	if params.FoldRounds(logPolyLen) < 0 {
		return nil, fmt.Errorf("%w: polynomial log length %d below final bound %d",
			ErrShape, logPolyLen, params.LogFinalPoly)
	}
	v := &Verifier{
		params: params,
		h:      h,
		logLen: logPolyLen + params.LogBlowUp,
	}
	domain := fft.NewDomain(uint64(1) << v.logLen)
	v.gen = domain.Generator
	v.genInv = domain.GeneratorInv
	v.twoInv.SetUint64(2)
	v.twoInv.Inverse(&v.twoInv)
	return v, nil
}

// CodewordLen returns the base codeword length.
func (v *Verifier) CodewordLen() uint64 {
	return uint64(1) << v.logLen
}

func (v *Verifier) fold(left, right, beta, xInv fields.Element) fields.Element {
	var even, odd fields.Element
	even.Add(&left, &right)
	odd.Sub(&left, &right)
	odd.Mul(&odd, &xInv)
	odd.Mul(&odd, &beta)
	even.Add(&even, &odd)
	even.Mul(&even, &v.twoInv)
	return even
}

// pow returns base^e for a small exponent.
func pow(base fields.Element, e uint64) fields.Element {
	var out fields.Element
	out.Exp(base, new(big.Int).SetUint64(e))
	return out
}

// VerifyQuery replays one query index through every layer. The base layer
// may be split across several commitments combined with the given weights
// (a single commitment uses weight one); betas are the fold challenges in
// order, foldRoots the roots of the committed intermediate layers.
func (v *Verifier) VerifyQuery(
	idx uint64,
	baseRoots, weights []fields.Element,
	foldRoots, betas []fields.Element,
	final polynomial.Univariate,
	qp QueryProof,
) error {
	rounds := len(betas)
	committedLayers := rounds - 1
	if committedLayers < 0 {
		committedLayers = 0
	}
	if len(baseRoots) != len(weights) || len(qp.Base) != len(baseRoots) {
		return fmt.Errorf("%w: %d base openings for %d commitments", ErrShape, len(qp.Base), len(baseRoots))
	}
	if len(foldRoots) != committedLayers || len(qp.Layers) != committedLayers {
		return fmt.Errorf("%w: %d layer openings for %d committed layers", ErrShape, len(qp.Layers), committedLayers)
	}
	if len(final) > 1<<v.params.LogFinalPoly {
		return fmt.Errorf("%w: %d coefficients, bound %d", ErrFinalDegree, len(final), 1<<v.params.LogFinalPoly)
	}

	l := uint64(1) << v.logLen
	half := l / 2
	if idx >= half {
		return fmt.Errorf("%w: query index %d out of range", ErrShape, idx)
	}

	// authenticate and combine the base layer pair
	var left, right, t fields.Element
	for j := range baseRoots {
		if err := merkle.Verify(v.h, baseRoots[j], int(idx), qp.Base[j].Left, v.logLen); err != nil {
			return err
		}
		if err := merkle.Verify(v.h, baseRoots[j], int(idx+half), qp.Base[j].Right, v.logLen); err != nil {
			return err
		}
		t.Mul(&weights[j], &qp.Base[j].Left.Leaf)
		left.Add(&left, &t)
		t.Mul(&weights[j], &qp.Base[j].Right.Leaf)
		right.Add(&right, &t)
	}

	if rounds == 0 {
		// no folding: the base codeword must already match the final polynomial
		x := pow(v.gen, idx)
		var minusX fields.Element
		minusX.Neg(&x)
		if got := final.Eval(x); !got.Equal(&left) {
			return fmt.Errorf("%w: base value vs final polynomial at %d", ErrFoldConsistency, idx)
		}
		if got := final.Eval(minusX); !got.Equal(&right) {
			return fmt.Errorf("%w: base value vs final polynomial at %d", ErrFoldConsistency, idx+half)
		}
		return nil
	}

	for r := 0; r < rounds; r++ {
		pos := idx & ((l >> (r + 1)) - 1)
		xInv := pow(v.genInv, pos<<r)
		folded := v.fold(left, right, betas[r], xInv)

		if r+1 < rounds {
			halfNext := l >> (r + 2)
			posNext := idx & (halfNext - 1)
			depth := v.logLen - (r + 1)
			po := qp.Layers[r]
			if err := merkle.Verify(v.h, foldRoots[r], int(posNext), po.Left, depth); err != nil {
				return err
			}
			if err := merkle.Verify(v.h, foldRoots[r], int(posNext+halfNext), po.Right, depth); err != nil {
				return err
			}
			opened := po.Left.Leaf
			if pos != posNext {
				opened = po.Right.Leaf
			}
			if !folded.Equal(&opened) {
				return fmt.Errorf("%w: round %d at position %d", ErrFoldConsistency, r, pos)
			}
			left, right = po.Left.Leaf, po.Right.Leaf
		} else {
			// terminal layer: compare against the explicit polynomial
			y := pow(v.gen, pos<<(r+1))
			if got := final.Eval(y); !got.Equal(&folded) {
				return fmt.Errorf("%w: final layer at position %d", ErrFoldConsistency, pos)
			}
		}
	}
	return nil
}

// Verify replays a standalone proximity proof. The reader must have
// absorbed the base root already, mirroring the prover.
func Verify(baseRoot fields.Element, logPolyLen int, h hasher.FieldHasher, params Params, proof *Proof, rd *transcript.Reader) error {
	v, err := NewVerifier(params, h, logPolyLen)
	if err != nil {
		return err
	}
	rounds := params.FoldRounds(logPolyLen)

	betas := make([]fields.Element, rounds)
	var foldRoots []fields.Element
	for r := 0; r < rounds; r++ {
		betas[r] = rd.Challenge()
		if r+1 < rounds {
			root, err := rd.Next()
			if err != nil {
				return err
			}
			foldRoots = append(foldRoots, root)
		}
	}

	finalCoeffs, err := rd.NextMany(1 << params.LogFinalPoly)
	if err != nil {
		return err
	}
	final := polynomial.Univariate(finalCoeffs)

	indices := rd.ChallengeIndices(params.NumQueries, v.CodewordLen()/2)
	if len(proof.Queries) != len(indices) {
		return fmt.Errorf("%w: %d query proofs for %d indices", ErrShape, len(proof.Queries), len(indices))
	}

	one := fields.One()
	for qi, idx := range indices {
		if err := v.VerifyQuery(idx, []fields.Element{baseRoot}, []fields.Element{one},
			foldRoots, betas, final, proof.Queries[qi]); err != nil {
			return err
		}
	}
	return nil
}

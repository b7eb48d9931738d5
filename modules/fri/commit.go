package fri

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"MultilinearPCS/modules/fields"
	"MultilinearPCS/modules/hasher"
	"MultilinearPCS/modules/merkle"
	"MultilinearPCS/modules/parallel"
	"MultilinearPCS/modules/polynomial"
	"MultilinearPCS/modules/transcript"
)

// ErrFinalDegree reports a final polynomial that exceeds the configured
// degree bound.
var ErrFinalDegree = errors.New("fri: final polynomial exceeds the degree bound")

type layer struct {
	codeword []fields.Element
	tree     *merkle.Tree // nil for the base layer and the final layer
}

// CommitPhase drives the prover side of the folding rounds over one live
// codeword. The base layer is committed by the caller; every intermediate
// folded layer is committed here; the last folded layer travels in the
// clear as the final polynomial.
type CommitPhase struct {
	params  Params
	h       hasher.FieldHasher
	layers  []layer
	invPows []fields.Element // invPows[i] = g^-i over the base domain
	twoInv  fields.Element
	rounds  int // total folds to run
}

// NewCommitPhase wraps a natural-order codeword over its evaluation
// domain.
func NewCommitPhase(codeword []fields.Element, domain *fft.Domain, h hasher.FieldHasher, params Params) (*CommitPhase, error) {
	l := len(codeword)
	if l == 0 || l&(l-1) != 0 || uint64(l) != domain.Cardinality {
		return nil, fmt.Errorf("%w: codeword length %d does not match domain cardinality %d",
			ErrShape, l, domain.Cardinality)
	}
	logLen := bits.TrailingZeros(uint(l))
	rounds := params.FoldRounds(logLen - params.LogBlowUp)
	if rounds < 0 {
		return nil, fmt.Errorf("%w: codeword of log length %d cannot reach final polynomial log length %d",
			ErrShape, logLen, params.LogFinalPoly)
	}

	cp := &CommitPhase{
		params: params,
		h:      h,
		layers: []layer{{codeword: codeword}},
		rounds: rounds,
	}
	cp.twoInv.SetUint64(2)
	cp.twoInv.Inverse(&cp.twoInv)

	cp.invPows = make([]fields.Element, l/2)
	cp.invPows[0] = fields.One()
	for i := 1; i < len(cp.invPows); i++ {
		cp.invPows[i].Mul(&cp.invPows[i-1], &domain.GeneratorInv)
	}
	return cp, nil
}

// FoldsDone returns the number of fold steps run so far.
func (cp *CommitPhase) FoldsDone() int {
	return len(cp.layers) - 1
}

// Fold halves the live codeword with the challenge beta:
//
//	f'(x^2) = (f(x) + f(-x))/2 + beta * (f(x) - f(-x))/(2x)
//
// Intermediate layers are Merkle-committed and their root returned with
// committed=true; the last fold is left uncommitted, its coefficients are
// sent in the clear instead.
func (cp *CommitPhase) Fold(beta fields.Element) (root fields.Element, committed bool, err error) {
	done := cp.FoldsDone()
	if done == cp.rounds {
		return fields.Element{}, false, fmt.Errorf("%w: all %d folds already run", ErrShape, cp.rounds)
	}

	cur := cp.layers[done].codeword
	half := len(cur) / 2
	stride := 1 << done
	folded := make([]fields.Element, half)
	parallel.Execute(half, func(start, end int) {
		var even, odd fields.Element
		for i := start; i < end; i++ {
			even.Add(&cur[i], &cur[i+half])
			odd.Sub(&cur[i], &cur[i+half])
			odd.Mul(&odd, &cp.invPows[i*stride])
			odd.Mul(&odd, &beta)
			even.Add(&even, &odd)
			folded[i].Mul(&even, &cp.twoInv)
		}
	})

	next := layer{codeword: folded}
	if done+1 < cp.rounds {
		tree, err := merkle.Commit(folded, cp.h)
		if err != nil {
			return fields.Element{}, false, err
		}
		next.tree = tree
		cp.layers = append(cp.layers, next)
		return tree.Root(), true, nil
	}
	cp.layers = append(cp.layers, next)
	return fields.Element{}, false, nil
}

// FinalCoefficients interpolates the fully-folded codeword and returns the
// explicit final polynomial. An honest run leaves no mass above the bound;
// anything else is reported as ErrFinalDegree before a proof is emitted.
func (cp *CommitPhase) FinalCoefficients() (polynomial.Univariate, error) {
	if cp.FoldsDone() != cp.rounds {
		return nil, fmt.Errorf("%w: %d of %d folds run", ErrShape, cp.FoldsDone(), cp.rounds)
	}
	coeffs := decode(cp.layers[len(cp.layers)-1].codeword)
	bound := 1 << cp.params.LogFinalPoly
	for i := bound; i < len(coeffs); i++ {
		if !coeffs[i].IsZero() {
			return nil, fmt.Errorf("%w: nonzero coefficient at degree %d", ErrFinalDegree, i)
		}
	}
	return polynomial.Univariate(coeffs[:bound]), nil
}

// PairOpening opens the two paired positions (i, i + len/2) of one layer.
type PairOpening struct {
	Left, Right merkle.Proof
}

// QueryProof opens one query index through every layer: the base
// commitment(s) owned by the caller, then each committed folded layer.
type QueryProof struct {
	Base   []PairOpening // one per base commitment
	Layers []PairOpening // committed folded layers, bottom-up
}

// OpenQueries produces the opening proofs for the given base-layer query
// indices, each in [0, L/2). The base layer may be committed under several
// trees (one per batched polynomial); all are opened at the same
// positions.
func (cp *CommitPhase) OpenQueries(indices []uint64, baseTrees []*merkle.Tree) ([]QueryProof, error) {
	if cp.FoldsDone() != cp.rounds {
		return nil, fmt.Errorf("%w: %d of %d folds run", ErrShape, cp.FoldsDone(), cp.rounds)
	}
	l := len(cp.layers[0].codeword)

	proofs := make([]QueryProof, len(indices))
	for qi, idx := range indices {
		if idx >= uint64(l/2) {
			return nil, fmt.Errorf("%w: query index %d out of range", ErrShape, idx)
		}
		var qp QueryProof
		for _, tree := range baseTrees {
			po, err := openPair(tree, int(idx), l/2)
			if err != nil {
				return nil, err
			}
			qp.Base = append(qp.Base, po)
		}
		for r := 1; r < len(cp.layers); r++ {
			if cp.layers[r].tree == nil {
				continue // final layer, sent in the clear
			}
			halfR := l >> (r + 1)
			po, err := openPair(cp.layers[r].tree, int(idx)&(halfR-1), halfR)
			if err != nil {
				return nil, err
			}
			qp.Layers = append(qp.Layers, po)
		}
		proofs[qi] = qp
	}
	return proofs, nil
}

func openPair(tree *merkle.Tree, pos, half int) (PairOpening, error) {
	left, err := tree.Open(pos)
	if err != nil {
		return PairOpening{}, err
	}
	right, err := tree.Open(pos + half)
	if err != nil {
		return PairOpening{}, err
	}
	return PairOpening{Left: left, Right: right}, nil
}

// Proof is a standalone proximity proof: fold roots and the final
// polynomial travel through the transcript stream, the query openings ride
// alongside it.
type Proof struct {
	Queries []QueryProof
}

// Prove runs the full proximity proof for a codeword already committed
// under baseTree. The caller must have absorbed the base root into the
// writer; every fold challenge is drawn from the transcript.
func Prove(codeword []fields.Element, domain *fft.Domain, baseTree *merkle.Tree, h hasher.FieldHasher, params Params, w *transcript.Writer) (*Proof, error) {
	cp, err := NewCommitPhase(codeword, domain, h, params)
	if err != nil {
		return nil, err
	}
	for cp.FoldsDone() < cp.rounds {
		beta := w.Challenge()
		root, committed, err := cp.Fold(beta)
		if err != nil {
			return nil, err
		}
		if committed {
			w.Write(root)
		}
	}

	final, err := cp.FinalCoefficients()
	if err != nil {
		return nil, err
	}
	w.Write(final...)

	indices := w.ChallengeIndices(params.NumQueries, uint64(len(codeword)/2))
	queries, err := cp.OpenQueries(indices, []*merkle.Tree{baseTree})
	if err != nil {
		return nil, err
	}
	return &Proof{Queries: queries}, nil
}

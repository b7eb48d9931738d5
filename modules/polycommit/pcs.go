// Package polycommit composes the sumcheck, folding, and Merkle layers
// into a multilinear polynomial commitment scheme. A polynomial is
// committed as the Merkle root of its Reed-Solomon codeword; an opening
// runs a sumcheck on eq(z, x) * p(x) and reuses the sumcheck challenges as
// fold randomness, so the folded codeword certifies exactly the
// partially-bound witness the sumcheck produced.
package polycommit

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"MultilinearPCS/modules/fields"
	"MultilinearPCS/modules/fri"
	"MultilinearPCS/modules/hasher"
	"MultilinearPCS/modules/logger"
	"MultilinearPCS/modules/merkle"
	"MultilinearPCS/modules/polynomial"
	"MultilinearPCS/modules/sumcheck"
	"MultilinearPCS/modules/transcript"
)

const (
	openLabel  = "pcs.open"
	batchLabel = "pcs.batch"
)

// ErrShape reports statement or proof dimensions inconsistent with the
// scheme configuration.
var ErrShape = errors.New("polycommit: shape mismatch")

// Scheme fixes the code rate, query count, and hash for every commitment
// produced under it. Prover and verifier must hold the same value.
type Scheme struct {
	params fri.Params
	h      hasher.FieldHasher
}

// NewScheme builds a scheme from validated parameters.
func NewScheme(params fri.Params, h hasher.FieldHasher) Scheme {
	return Scheme{params: params, h: h}
}

// Params returns the underlying proximity-test configuration.
func (s Scheme) Params() fri.Params {
	return s.params
}

// Commitment is the public, transmissible commitment to one polynomial.
type Commitment struct {
	Root    fields.Element
	NumVars int
}

// Committed is the prover-side opening state: the polynomial together with
// its codeword and Merkle tree. It is required to open, never transmitted.
type Committed struct {
	poly     *polynomial.Multilinear
	codeword []fields.Element
	domain   *fft.Domain
	tree     *merkle.Tree
}

// Commitment returns the public commitment for this opening state.
func (ct *Committed) Commitment() Commitment {
	return Commitment{Root: ct.tree.Root(), NumVars: ct.poly.NumVars()}
}

// Commit encodes the polynomial's coefficient form and Merkle-commits the
// codeword.
func (s Scheme) Commit(p *polynomial.Multilinear) (Commitment, *Committed, error) {
	if p.NumVars() < s.params.LogFinalPoly {
		return Commitment{}, nil, fmt.Errorf("%w: %d variables below final polynomial log length %d",
			ErrShape, p.NumVars(), s.params.LogFinalPoly)
	}
	codeword, domain, err := fri.Encode(p.Coefficients(), s.params.LogBlowUp)
	if err != nil {
		return Commitment{}, nil, err
	}
	tree, err := merkle.Commit(codeword, s.h)
	if err != nil {
		return Commitment{}, nil, err
	}
	ct := &Committed{poly: p, codeword: codeword, domain: domain, tree: tree}
	return ct.Commitment(), ct, nil
}

// EvalProof proves one evaluation claim. Stream carries the
// transcript-absorbed prover elements in order; Queries carries the Merkle
// openings, which are authenticated rather than absorbed.
type EvalProof struct {
	Stream  []fields.Element
	Queries []fri.QueryProof
}

// Open evaluates the committed polynomial at point and proves the result.
// The sumcheck runs over eq(point, x) * p(x); each of the first
// numVars - LogFinalPoly challenges additionally folds the codeword, and
// the fully-folded remainder is sent as explicit coefficients.
func (s Scheme) Open(ct *Committed, point []fields.Element) (fields.Element, *EvalProof, error) {
	n := ct.poly.NumVars()
	if len(point) != n {
		return fields.Element{}, nil, fmt.Errorf("%w: point has %d coordinates for %d variables",
			ErrShape, len(point), n)
	}
	value, err := ct.poly.Evaluate(point)
	if err != nil {
		return fields.Element{}, nil, err
	}

	w := transcript.NewWriter(s.h, openLabel)
	w.Absorb(ct.tree.Root())
	w.Absorb(point...)
	w.Absorb(value)

	queries, err := s.proveReduced(w, ct.poly, ct.codeword, ct.domain, point, value,
		[]*merkle.Tree{ct.tree})
	if err != nil {
		return fields.Element{}, nil, err
	}

	log := logger.Logger()
	log.Debug().
		Int("numVars", n).
		Int("queries", len(queries)).
		Int("streamLen", len(w.Proof())).
		Msg("opening proved")
	return value, &EvalProof{Stream: w.Proof(), Queries: queries}, nil
}

// Verify checks an evaluation claim against a commitment. It replays the
// sumcheck, reads the fold roots and final coefficients from the stream,
// checks that the final polynomial closes the reduced sumcheck claim, and
// spot-checks the fold chain at the derived query positions.
func (s Scheme) Verify(cm Commitment, point []fields.Element, value fields.Element, proof *EvalProof) error {
	n := cm.NumVars
	if len(point) != n {
		return fmt.Errorf("%w: point has %d coordinates for %d variables", ErrShape, len(point), n)
	}

	rd := transcript.NewReader(s.h, openLabel, proof.Stream)
	rd.Absorb(cm.Root)
	rd.Absorb(point...)
	rd.Absorb(value)

	one := fields.One()
	return s.verifyReduced(rd, n, point, value,
		[]fields.Element{cm.Root}, []fields.Element{one}, proof.Queries)
}

// proveReduced runs the interleaved sumcheck and fold rounds proving that
// the codeword's polynomial evaluates to value at point: one degree-2
// round message per variable, a fold with the same challenge while fold
// rounds remain, the explicit final coefficients, then the query openings
// at transcript-derived positions against baseTrees.
func (s Scheme) proveReduced(
	w *transcript.Writer,
	witness *polynomial.Multilinear,
	codeword []fields.Element,
	domain *fft.Domain,
	point []fields.Element,
	value fields.Element,
	baseTrees []*merkle.Tree,
) ([]fri.QueryProof, error) {
	n := witness.NumVars()
	inst, err := sumcheck.NewInstance(
		[]*polynomial.Multilinear{polynomial.EqMultilinear(point), witness},
		sumcheck.Product{NumInputs: 2}, value)
	if err != nil {
		return nil, err
	}
	cp, err := fri.NewCommitPhase(codeword, domain, s.h, s.params)
	if err != nil {
		return nil, err
	}

	foldRounds := s.params.FoldRounds(n)
	for i := 0; i < n; i++ {
		r, err := inst.Round(w)
		if err != nil {
			return nil, err
		}
		if i < foldRounds {
			root, committed, err := cp.Fold(r)
			if err != nil {
				return nil, err
			}
			if committed {
				w.Write(root)
			}
		}
	}

	final, err := cp.FinalCoefficients()
	if err != nil {
		return nil, err
	}
	w.Write(final...)

	indices := w.ChallengeIndices(s.params.NumQueries, uint64(len(codeword))/2)
	return cp.OpenQueries(indices, baseTrees)
}

// verifyReduced replays one proveReduced run: the sumcheck rounds with
// interleaved fold roots, the final coefficients closing the reduced claim,
// and the query spot checks. The base layer of every query is opened under
// each root and combined with the given weights (a single commitment uses
// weight one).
func (s Scheme) verifyReduced(
	rd *transcript.Reader,
	numVars int,
	point []fields.Element,
	value fields.Element,
	baseRoots, weights []fields.Element,
	queries []fri.QueryProof,
) error {
	foldRounds := s.params.FoldRounds(numVars)
	if foldRounds < 0 {
		return fmt.Errorf("%w: %d variables below final polynomial log length %d",
			ErrShape, numVars, s.params.LogFinalPoly)
	}

	st, err := sumcheck.NewState(numVars, sumcheck.Product{NumInputs: 2}, value)
	if err != nil {
		return err
	}
	var foldRoots []fields.Element
	for i := 0; i < numVars; i++ {
		if err := st.Round(rd); err != nil {
			return err
		}
		if i < foldRounds-1 {
			root, err := rd.Next()
			if err != nil {
				return err
			}
			foldRoots = append(foldRoots, root)
		}
	}

	finalCoeffs, err := rd.NextMany(1 << s.params.LogFinalPoly)
	if err != nil {
		return err
	}
	final := polynomial.Univariate(finalCoeffs)

	// the reduced claim must equal eq(z, r) * q(r_tail), where q is the
	// partially-bound witness the final polynomial encodes
	rs := st.Challenges()
	eqAtR, err := polynomial.EqAt(point, rs)
	if err != nil {
		return err
	}
	qTail, err := polynomial.EvalCoefficients(finalCoeffs, rs[foldRounds:])
	if err != nil {
		return err
	}
	var expect fields.Element
	expect.Mul(&eqAtR, &qTail)
	claim := st.Claim()
	if !expect.Equal(&claim) {
		return fmt.Errorf("%w: final polynomial does not close the claim", sumcheck.ErrClaimReduction)
	}

	v, err := fri.NewVerifier(s.params, s.h, numVars)
	if err != nil {
		return err
	}
	indices := rd.ChallengeIndices(s.params.NumQueries, v.CodewordLen()/2)
	if err := rd.Done(); err != nil {
		return err
	}
	if len(queries) != len(indices) {
		return fmt.Errorf("%w: %d query proofs for %d indices", ErrShape, len(queries), len(indices))
	}

	betas := rs[:foldRounds]
	for qi, idx := range indices {
		if err := v.VerifyQuery(idx, baseRoots, weights, foldRoots, betas, final, queries[qi]); err != nil {
			return err
		}
	}
	return nil
}

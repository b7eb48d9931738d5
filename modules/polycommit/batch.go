package polycommit

import (
	"fmt"

	"MultilinearPCS/modules/fields"
	"MultilinearPCS/modules/fri"
	"MultilinearPCS/modules/merkle"
	"MultilinearPCS/modules/parallel"
	"MultilinearPCS/modules/polynomial"
	"MultilinearPCS/modules/sumcheck"
	"MultilinearPCS/modules/transcript"
)

// Claim is one evaluation claim of a batch: the commitment, the point, and
// the claimed value there.
type Claim struct {
	Commitment Commitment
	Point      []fields.Element
	Value      fields.Element
}

// BatchProof proves several evaluation claims in two stages. A
// point-merging sumcheck over the weighted eq(z_j, x) * p_j(x) terms
// reduces every claim to one shared point, where the prover reveals each
// polynomial's value. Fresh weights drawn only after those values are
// absorbed then combine the polynomials into a single opening at the
// shared point, so each revealed value is bound by the combined opening's
// FRI-certified final polynomial rather than taken on faith.
type BatchProof struct {
	Stream  []fields.Element
	Queries []fri.QueryProof
}

// BatchOpen proves the evaluations of several same-size committed
// polynomials, each at its own point.
func (s Scheme) BatchOpen(cts []*Committed, points [][]fields.Element) ([]fields.Element, *BatchProof, error) {
	nb := len(cts)
	if nb == 0 {
		return nil, nil, fmt.Errorf("%w: empty batch", ErrShape)
	}
	if len(points) != nb {
		return nil, nil, fmt.Errorf("%w: %d points for %d commitments", ErrShape, len(points), nb)
	}
	n := cts[0].poly.NumVars()
	values := make([]fields.Element, nb)
	for j, ct := range cts {
		if ct.poly.NumVars() != n {
			return nil, nil, fmt.Errorf("%w: polynomial %d has %d variables, expected %d",
				ErrShape, j, ct.poly.NumVars(), n)
		}
		if len(points[j]) != n {
			return nil, nil, fmt.Errorf("%w: point %d has %d coordinates for %d variables",
				ErrShape, j, len(points[j]), n)
		}
		v, err := ct.poly.Evaluate(points[j])
		if err != nil {
			return nil, nil, err
		}
		values[j] = v
	}

	w := transcript.NewWriter(s.h, batchLabel)
	for j, ct := range cts {
		w.Absorb(ct.tree.Root())
		w.Absorb(points[j]...)
		w.Absorb(values[j])
	}
	gamma := w.Challenges(nb)

	// point-merging stage: one sumcheck over the gamma-weighted claims, no
	// folding, reducing every claim to the shared challenge point
	claimed := fields.InnerProduct(gamma, values)
	witnesses := make([]*polynomial.Multilinear, 0, 2*nb)
	subs := make([]sumcheck.Composition, nb)
	for j, ct := range cts {
		witnesses = append(witnesses, polynomial.EqMultilinear(points[j]), ct.poly)
		subs[j] = sumcheck.Product{NumInputs: 2}
	}
	comp, err := sumcheck.NewWeightedSum(subs, gamma)
	if err != nil {
		return nil, nil, err
	}
	inst, err := sumcheck.NewInstance(witnesses, comp, claimed)
	if err != nil {
		return nil, nil, err
	}
	for i := 0; i < n; i++ {
		if _, err := inst.Round(w); err != nil {
			return nil, nil, err
		}
	}
	shared := inst.Challenges()

	// reveal each polynomial's value at the shared point
	evals, err := inst.FinalEvals()
	if err != nil {
		return nil, nil, err
	}
	revealed := make([]fields.Element, nb)
	for j := range revealed {
		revealed[j] = evals[2*j+1]
	}
	w.Write(revealed...)

	// combining weights are drawn after the revealed values are absorbed
	delta := w.Challenges(nb)
	target := fields.InnerProduct(delta, revealed)

	l := len(cts[0].codeword)
	combined := make([]fields.Element, l)
	parallel.Execute(l, func(start, end int) {
		var t fields.Element
		for i := start; i < end; i++ {
			for j := range cts {
				t.Mul(&delta[j], &cts[j].codeword[i])
				combined[i].Add(&combined[i], &t)
			}
		}
	})
	table := make([]fields.Element, 1<<n)
	parallel.Execute(len(table), func(start, end int) {
		var t fields.Element
		for i := start; i < end; i++ {
			for j := range cts {
				t.Mul(&delta[j], &cts[j].poly.Table()[i])
				table[i].Add(&table[i], &t)
			}
		}
	})
	g, err := polynomial.NewMultilinear(table)
	if err != nil {
		return nil, nil, err
	}

	baseTrees := make([]*merkle.Tree, nb)
	for j, ct := range cts {
		baseTrees[j] = ct.tree
	}
	queries, err := s.proveReduced(w, g, combined, cts[0].domain, shared, target, baseTrees)
	if err != nil {
		return nil, nil, err
	}
	return values, &BatchProof{Stream: w.Proof(), Queries: queries}, nil
}

// BatchVerify checks a batch proof against its claims: the point-merging
// sumcheck must be closed by the revealed values, and the combined opening
// at the shared point must certify their delta-weighted sum.
func (s Scheme) BatchVerify(claims []Claim, proof *BatchProof) error {
	nb := len(claims)
	if nb == 0 {
		return fmt.Errorf("%w: empty batch", ErrShape)
	}
	n := claims[0].Commitment.NumVars
	for j, c := range claims {
		if c.Commitment.NumVars != n {
			return fmt.Errorf("%w: commitment %d has %d variables, expected %d",
				ErrShape, j, c.Commitment.NumVars, n)
		}
		if len(c.Point) != n {
			return fmt.Errorf("%w: point %d has %d coordinates for %d variables",
				ErrShape, j, len(c.Point), n)
		}
	}

	rd := transcript.NewReader(s.h, batchLabel, proof.Stream)
	for _, c := range claims {
		rd.Absorb(c.Commitment.Root)
		rd.Absorb(c.Point...)
		rd.Absorb(c.Value)
	}
	gamma := rd.Challenges(nb)

	var claimed, t fields.Element
	for j, c := range claims {
		t.Mul(&gamma[j], &c.Value)
		claimed.Add(&claimed, &t)
	}
	subs := make([]sumcheck.Composition, nb)
	for j := range subs {
		subs[j] = sumcheck.Product{NumInputs: 2}
	}
	comp, err := sumcheck.NewWeightedSum(subs, gamma)
	if err != nil {
		return err
	}
	st, err := sumcheck.NewState(n, comp, claimed)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := st.Round(rd); err != nil {
			return err
		}
	}
	shared := st.Challenges()

	// the revealed values must close the point-merging claim
	revealed, err := rd.NextMany(nb)
	if err != nil {
		return err
	}
	var expect fields.Element
	for j, c := range claims {
		eqAtR, err := polynomial.EqAt(c.Point, shared)
		if err != nil {
			return err
		}
		t.Mul(&eqAtR, &revealed[j])
		t.Mul(&t, &gamma[j])
		expect.Add(&expect, &t)
	}
	claim := st.Claim()
	if !expect.Equal(&claim) {
		return fmt.Errorf("%w: revealed values do not close the merged claim", sumcheck.ErrClaimReduction)
	}

	delta := rd.Challenges(nb)
	target := fields.InnerProduct(delta, revealed)

	baseRoots := make([]fields.Element, nb)
	for j, c := range claims {
		baseRoots[j] = c.Commitment.Root
	}
	return s.verifyReduced(rd, n, shared, target, baseRoots, delta, proof.Queries)
}

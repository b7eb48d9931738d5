package sumcheck

import (
	"fmt"

	"MultilinearPCS/modules/fields"
	"MultilinearPCS/modules/parallel"
	"MultilinearPCS/modules/polynomial"
	"MultilinearPCS/modules/transcript"
)

// Instance is the prover-side state machine for one claim. It owns private
// copies of the witnesses and binds them in place round by round.
type Instance struct {
	witnesses  []*polynomial.Multilinear
	comp       Composition
	claim      fields.Element
	challenges []fields.Element
	rounds     int
}

// NewInstance starts a prover for the claim that comp summed over the full
// hypercube of the witnesses equals claimedSum. The witnesses are cloned;
// the caller's tables stay intact.
func NewInstance(witnesses []*polynomial.Multilinear, comp Composition, claimedSum fields.Element) (*Instance, error) {
	if len(witnesses) == 0 {
		return nil, fmt.Errorf("%w: no witnesses", ErrShape)
	}
	if len(witnesses) != comp.Arity() {
		return nil, fmt.Errorf("%w: %d witnesses for composition arity %d", ErrShape, len(witnesses), comp.Arity())
	}
	n := witnesses[0].NumVars()
	if n < 1 {
		return nil, fmt.Errorf("%w: witnesses must have at least one variable", ErrShape)
	}
	in := &Instance{comp: comp, claim: claimedSum, rounds: n}
	for i, w := range witnesses {
		if w.NumVars() != n {
			return nil, fmt.Errorf("%w: witness %d has %d variables, expected %d", ErrShape, i, w.NumVars(), n)
		}
		in.witnesses = append(in.witnesses, w.Clone())
	}
	return in, nil
}

// Rounds returns the total round count n.
func (in *Instance) Rounds() int {
	return in.rounds
}

// RemainingRounds returns the number of rounds still to run.
func (in *Instance) RemainingRounds() int {
	return in.rounds - len(in.challenges)
}

// Claim returns the running claimed sum.
func (in *Instance) Claim() fields.Element {
	return in.claim
}

// Challenges returns the challenges drawn so far.
func (in *Instance) Challenges() []fields.Element {
	return in.challenges
}

// WitnessCoefficients snapshots witness i in the monomial basis at its
// current partially-bound state.
func (in *Instance) WitnessCoefficients(i int) []fields.Element {
	return in.witnesses[i].Coefficients()
}

// FinalEvals returns the witness values at the fully-bound point. Only
// valid once every round has run.
func (in *Instance) FinalEvals() ([]fields.Element, error) {
	if in.RemainingRounds() != 0 {
		return nil, fmt.Errorf("%w: %d rounds remaining", ErrShape, in.RemainingRounds())
	}
	evals := make([]fields.Element, len(in.witnesses))
	for i, w := range in.witnesses {
		evals[i] = w.Table()[0]
	}
	return evals, nil
}

// Round computes the next round message, writes it to the transcript,
// draws the round challenge, and binds it into every witness. It returns
// the challenge.
func (in *Instance) Round(w *transcript.Writer) (fields.Element, error) {
	if in.RemainingRounds() == 0 {
		return fields.Element{}, fmt.Errorf("%w: all rounds already run", ErrShape)
	}

	msg := in.roundMessage()
	w.Write(msg...)
	r := w.Challenge()

	for _, wit := range in.witnesses {
		wit.Bind(r)
	}
	claim, err := polynomial.EvalFromValues(msg, r)
	if err != nil {
		return fields.Element{}, err
	}
	in.claim = claim
	in.challenges = append(in.challenges, r)
	return r, nil
}

// roundMessage evaluates the univariate restriction of the summed
// composition along the next unbound variable, as its values at the points
// 0..degree. The half-hypercube sweep is sharded across workers with a
// final merge of per-chunk partial sums.
func (in *Instance) roundMessage() []fields.Element {
	d := in.comp.Degree()
	half := in.witnesses[0].Size() >> 1

	return parallel.Accumulate(half, d+1, func(start, end int, acc []fields.Element) {
		arity := len(in.witnesses)
		ins := make([]fields.Element, arity)
		steps := make([]fields.Element, arity)
		for j := start; j < end; j++ {
			for wi, wit := range in.witnesses {
				tbl := wit.Table()
				ins[wi] = tbl[2*j]
				steps[wi].Sub(&tbl[2*j+1], &tbl[2*j])
			}
			for t := 0; t <= d; t++ {
				if t > 0 {
					// advance every witness value from x=t-1 to x=t
					for wi := range ins {
						ins[wi].Add(&ins[wi], &steps[wi])
					}
				}
				v := in.comp.Evaluate(ins)
				acc[t].Add(&acc[t], &v)
			}
		}
	})
}

// Prove runs every round of the claim. It returns the sampled challenge
// point and the witness evaluations at that point; the caller transmits
// those evaluations (or proves them via the commitment layer) for the
// verifier's final check.
func Prove(witnesses []*polynomial.Multilinear, comp Composition, claimedSum fields.Element, w *transcript.Writer) (point, finalEvals []fields.Element, err error) {
	in, err := NewInstance(witnesses, comp, claimedSum)
	if err != nil {
		return nil, nil, err
	}
	for in.RemainingRounds() > 0 {
		if _, err := in.Round(w); err != nil {
			return nil, nil, err
		}
	}
	finalEvals, err = in.FinalEvals()
	if err != nil {
		return nil, nil, err
	}
	return in.Challenges(), finalEvals, nil
}

package sumcheck

import (
	"errors"
	"fmt"

	"MultilinearPCS/modules/fields"
	"MultilinearPCS/modules/polynomial"
	"MultilinearPCS/modules/transcript"
)

var (
	// ErrSumMismatch reports a round message whose boundary values do not
	// add up to the running claim.
	ErrSumMismatch = errors.New("sumcheck: boundary sum mismatch")
	// ErrDegreeMismatch reports a round message with more coefficients
	// than the declared composition degree allows.
	ErrDegreeMismatch = errors.New("sumcheck: round message degree exceeds declared bound")
	// ErrClaimReduction reports a final claim the witness evaluations do
	// not close.
	ErrClaimReduction = errors.New("sumcheck: final claim reduction failed")
)

// State is the verifier-side replay of one claim.
type State struct {
	comp       Composition
	claim      fields.Element
	challenges []fields.Element
	rounds     int
}

// NewState starts a verifier for a claim over numVars variables.
func NewState(numVars int, comp Composition, claimedSum fields.Element) (*State, error) {
	if numVars < 1 {
		return nil, fmt.Errorf("%w: claim must have at least one variable", ErrShape)
	}
	return &State{comp: comp, claim: claimedSum, rounds: numVars}, nil
}

// RemainingRounds returns the number of rounds still to replay.
func (s *State) RemainingRounds() int {
	return s.rounds - len(s.challenges)
}

// Claim returns the running claimed value; after the last round it is the
// reduced single-point claim.
func (s *State) Claim() fields.Element {
	return s.claim
}

// Challenges returns the challenges drawn so far; after the last round it
// is the fully-bound evaluation point.
func (s *State) Challenges() []fields.Element {
	return s.challenges
}

// CheckMessage validates an explicit round message against the declared
// composition degree.
func CheckMessage(comp Composition, msg []fields.Element) error {
	if len(msg) != comp.Degree()+1 {
		return fmt.Errorf("%w: %d values for degree %d", ErrDegreeMismatch, len(msg), comp.Degree())
	}
	return nil
}

// Round reads the next round message from the transcript and steps the
// state machine.
func (s *State) Round(rd *transcript.Reader) error {
	msg, err := rd.NextMany(s.comp.Degree() + 1)
	if err != nil {
		return err
	}
	return s.Step(msg, rd.Challenge())
}

// Step checks one round message against the running claim and binds the
// round challenge: the message evaluated at {0, 1} must sum to the claim,
// and its value at r becomes the next claim.
func (s *State) Step(msg []fields.Element, r fields.Element) error {
	if s.RemainingRounds() == 0 {
		return fmt.Errorf("%w: all rounds already replayed", ErrShape)
	}
	if err := CheckMessage(s.comp, msg); err != nil {
		return err
	}

	var boundary fields.Element
	boundary.Add(&msg[0], &msg[1])
	if !boundary.Equal(&s.claim) {
		return fmt.Errorf("%w: round %d", ErrSumMismatch, len(s.challenges))
	}

	claim, err := polynomial.EvalFromValues(msg, r)
	if err != nil {
		return err
	}
	s.claim = claim
	s.challenges = append(s.challenges, r)
	return nil
}

// CheckReduction confirms that oracle-supplied witness evaluations at the
// final point close the reduced claim.
func CheckReduction(comp Composition, witnessEvals []fields.Element, claim fields.Element) error {
	if len(witnessEvals) != comp.Arity() {
		return fmt.Errorf("%w: %d evaluations for arity %d", ErrShape, len(witnessEvals), comp.Arity())
	}
	got := comp.Evaluate(witnessEvals)
	if !got.Equal(&claim) {
		return ErrClaimReduction
	}
	return nil
}

// Verify replays every round of a claim and returns the reduced
// single-point claim: the challenge point and the value the composition
// must take there. The witness evaluations proving that value are supplied
// out of band, typically through the commitment layer, and checked with
// CheckReduction.
func Verify(numVars int, comp Composition, claimedSum fields.Element, rd *transcript.Reader) (point []fields.Element, value fields.Element, err error) {
	s, err := NewState(numVars, comp, claimedSum)
	if err != nil {
		return nil, fields.Element{}, err
	}
	for s.RemainingRounds() > 0 {
		if err := s.Round(rd); err != nil {
			return nil, fields.Element{}, err
		}
	}
	return s.Challenges(), s.Claim(), nil
}

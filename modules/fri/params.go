// Package fri implements the folding-based proximity test: a committed
// Reed-Solomon codeword is folded in half round by round under transcript
// challenges, each folded layer is Merkle-committed, and spot checks at
// random query positions tie every layer to the next. The fold challenges
// are supplied by the caller, which lets the commitment layer reuse its
// sumcheck challenges as fold randomness.
package fri

import (
	"errors"
	"fmt"
)

// ErrShape reports invalid configuration or codeword dimensions, checked
// eagerly at construction.
var ErrShape = errors.New("fri: shape mismatch")

// QueryPolicy derives the query count from the security target and the
// code rate. The concrete formula is a policy choice, not a protocol
// constant.
type QueryPolicy func(securityBits, logBlowUp int) int

// DefaultQueryPolicy charges log2(blowup) bits of soundness per query.
func DefaultQueryPolicy(securityBits, logBlowUp int) int {
	q := (securityBits + logBlowUp - 1) / logBlowUp
	if q < 1 {
		q = 1
	}
	return q
}

// Params is the immutable protocol configuration. Prover and verifier must
// be handed the same value; identical configuration by construction, not
// by convention.
type Params struct {
	// LogBlowUp is log2 of the inverse rate: codeword length is
	// 2^LogBlowUp times the polynomial's natural domain size.
	LogBlowUp int
	// SecurityBits is the target soundness level the query count is
	// derived from.
	SecurityBits int
	// NumQueries is the number of spot-check positions.
	NumQueries int
	// LogFinalPoly is log2 of the explicit final polynomial length;
	// folding stops once the codeword encodes a polynomial this small.
	LogFinalPoly int
}

// NewParams validates the configuration and derives the query count
// through policy (DefaultQueryPolicy when nil).
func NewParams(logBlowUp, securityBits, logFinalPoly int, policy QueryPolicy) (Params, error) {
	if logBlowUp < 1 {
		return Params{}, fmt.Errorf("%w: blow-up must be at least 2, got log %d", ErrShape, logBlowUp)
	}
	if securityBits < 1 {
		return Params{}, fmt.Errorf("%w: security bits must be positive, got %d", ErrShape, securityBits)
	}
	if logFinalPoly < 0 {
		return Params{}, fmt.Errorf("%w: negative final polynomial size log %d", ErrShape, logFinalPoly)
	}
	if policy == nil {
		policy = DefaultQueryPolicy
	}
	return Params{
		LogBlowUp:    logBlowUp,
		SecurityBits: securityBits,
		NumQueries:   policy(securityBits, logBlowUp),
		LogFinalPoly: logFinalPoly,
	}, nil
}

// FoldRounds is the number of fold steps for a polynomial over numVars
// variables (equivalently of log-degree numVars).
func (p Params) FoldRounds(numVars int) int {
	return numVars - p.LogFinalPoly
}

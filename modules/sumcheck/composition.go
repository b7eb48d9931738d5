// Package sumcheck implements the multi-round interactive reduction of a
// hypercube sum claim to a single point evaluation, over the Fiat-Shamir
// transcript. The prover and verifier are explicit state machines stepping
// one round at a time, so callers (the polynomial commitment layer in
// particular) can interleave per-round work with the rounds.
package sumcheck

import (
	"errors"
	"fmt"

	"MultilinearPCS/modules/fields"
)

// ErrShape reports mismatched variable counts, arities, or witness sizes,
// checked eagerly at construction.
var ErrShape = errors.New("sumcheck: shape mismatch")

// Composition maps the per-point witness values to the scalar being
// summed. Implementations are stateless and shared verbatim by prover and
// verifier.
type Composition interface {
	// Arity is the number of witness inputs consumed per hypercube point.
	Arity() int
	// Degree bounds the degree of every univariate round message.
	Degree() int
	// Evaluate combines one tuple of witness values.
	Evaluate(ins []fields.Element) fields.Element
}

// Product multiplies its inputs; a product of k multilinear witnesses
// yields degree-k round messages.
type Product struct {
	NumInputs int
}

func (p Product) Arity() int  { return p.NumInputs }
func (p Product) Degree() int { return p.NumInputs }

func (p Product) Evaluate(ins []fields.Element) fields.Element {
	res := ins[0]
	for i := 1; i < len(ins); i++ {
		res.Mul(&res, &ins[i])
	}
	return res
}

// Linear is a weighted sum of its inputs, with degree-1 round messages.
type Linear struct {
	Weights []fields.Element
}

func (l Linear) Arity() int  { return len(l.Weights) }
func (l Linear) Degree() int { return 1 }

func (l Linear) Evaluate(ins []fields.Element) fields.Element {
	return fields.InnerProduct(l.Weights, ins)
}

// WeightedSum combines sub-compositions over consecutive disjoint input
// slices with one weight each. It is the batching composition of the
// aggregation layer: N claims fold into one run through it.
type WeightedSum struct {
	Subs    []Composition
	Weights []fields.Element

	arity  int
	degree int
}

// NewWeightedSum validates and builds the batching composition.
func NewWeightedSum(subs []Composition, weights []fields.Element) (*WeightedSum, error) {
	if len(subs) == 0 || len(subs) != len(weights) {
		return nil, fmt.Errorf("%w: %d sub-compositions, %d weights", ErrShape, len(subs), len(weights))
	}
	ws := &WeightedSum{Subs: subs, Weights: weights}
	for _, sub := range subs {
		ws.arity += sub.Arity()
		if d := sub.Degree(); d > ws.degree {
			ws.degree = d
		}
	}
	return ws, nil
}

func (ws *WeightedSum) Arity() int  { return ws.arity }
func (ws *WeightedSum) Degree() int { return ws.degree }

func (ws *WeightedSum) Evaluate(ins []fields.Element) fields.Element {
	var res, term fields.Element
	off := 0
	for i, sub := range ws.Subs {
		term = sub.Evaluate(ins[off : off+sub.Arity()])
		term.Mul(&term, &ws.Weights[i])
		res.Add(&res, &term)
		off += sub.Arity()
	}
	return res
}

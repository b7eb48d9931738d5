package polynomial

import (
	"fmt"

	"MultilinearPCS/modules/fields"
)

// Univariate is a univariate polynomial in coefficient form, constant term
// first.
type Univariate []fields.Element

// Eval evaluates the polynomial at x by Horner's rule.
func (u Univariate) Eval(x fields.Element) fields.Element {
	if len(u) == 0 {
		return fields.Element{}
	}
	res := u[len(u)-1]
	for i := len(u) - 2; i >= 0; i-- {
		res.Mul(&res, &x)
		res.Add(&res, &u[i])
	}
	return res
}

// EvalFromValues evaluates, at r, the unique degree-(len(values)-1)
// polynomial taking the given values on the points 0, 1, ..., len(values)-1.
// This is how round messages sent as boundary evaluations are consumed.
func EvalFromValues(values []fields.Element, r fields.Element) (fields.Element, error) {
	d := len(values) - 1
	if d < 0 {
		return fields.Element{}, fmt.Errorf("%w: empty value list", ErrShape)
	}
	if d == 0 {
		return values[0], nil
	}

	// Lagrange basis over the nodes 0..d; denominators inverted in one batch.
	nodes := make([]fields.Element, len(values))
	for i := range nodes {
		nodes[i] = fields.NewElement(uint64(i))
	}
	denoms := make([]fields.Element, len(values))
	var t fields.Element
	for i := range values {
		denoms[i] = fields.One()
		for j := range values {
			if j == i {
				continue
			}
			t.Sub(&nodes[i], &nodes[j])
			denoms[i].Mul(&denoms[i], &t)
		}
	}
	invDenoms := fields.BatchInvert(denoms)

	var res, term fields.Element
	for i := range values {
		term = fields.One()
		for j := range values {
			if j == i {
				continue
			}
			t.Sub(&r, &nodes[j])
			term.Mul(&term, &t)
		}
		term.Mul(&term, &values[i])
		term.Mul(&term, &invDenoms[i])
		res.Add(&res, &term)
	}
	return res, nil
}

// Package polynomial provides the multilinear and univariate polynomial
// forms manipulated by the sumcheck and FRI protocols.
package polynomial

import (
	"errors"
	"fmt"
	"math/bits"

	"MultilinearPCS/modules/fields"
)

// ErrShape reports a dimension mismatch caught eagerly at construction or
// call time.
var ErrShape = errors.New("polynomial: shape mismatch")

// Multilinear is an n-variate multilinear polynomial stored as its 2^n
// evaluations over the boolean hypercube. Variable 0 is the least
// significant bit of the evaluation index.
type Multilinear struct {
	evals   []fields.Element
	numVars int
}

// NewMultilinear wraps an evaluation table; its length must be a power of
// two. The table is owned by the polynomial from here on.
func NewMultilinear(evals []fields.Element) (*Multilinear, error) {
	n := len(evals)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: evaluation table length %d is not a power of two", ErrShape, n)
	}
	return &Multilinear{evals: evals, numVars: bits.TrailingZeros(uint(n))}, nil
}

// Random samples a uniform multilinear polynomial over numVars variables.
func Random(numVars int) *Multilinear {
	m, _ := NewMultilinear(fields.RandomVector(1 << numVars))
	return m
}

// NumVars returns the number of unbound variables.
func (m *Multilinear) NumVars() int {
	return m.numVars
}

// Size returns the current evaluation table length, 2^NumVars.
func (m *Multilinear) Size() int {
	return len(m.evals)
}

// Table returns the live evaluation table, without copying.
func (m *Multilinear) Table() []fields.Element {
	return m.evals
}

// Clone deep-copies the polynomial.
func (m *Multilinear) Clone() *Multilinear {
	return &Multilinear{
		evals:   append([]fields.Element(nil), m.evals...),
		numVars: m.numVars,
	}
}

// Bind fixes variable 0 to r, halving the evaluation table in place:
// v[j] <- v[2j] + r*(v[2j+1] - v[2j]).
func (m *Multilinear) Bind(r fields.Element) {
	half := len(m.evals) >> 1
	var d fields.Element
	for j := 0; j < half; j++ {
		d.Sub(&m.evals[2*j+1], &m.evals[2*j])
		d.Mul(&d, &r)
		m.evals[j].Add(&m.evals[2*j], &d)
	}
	m.evals = m.evals[:half]
	m.numVars--
}

// Evaluate computes m(point) without mutating the table.
func (m *Multilinear) Evaluate(point []fields.Element) (fields.Element, error) {
	if len(point) != m.numVars {
		return fields.Element{}, fmt.Errorf("%w: point has %d coordinates, polynomial has %d variables",
			ErrShape, len(point), m.numVars)
	}
	scratch := m.Clone()
	for _, r := range point {
		scratch.Bind(r)
	}
	return scratch.evals[0], nil
}

// Coefficients converts the evaluation table to the monomial basis: in the
// returned vector, bit k of the index is the exponent of variable k.
func (m *Multilinear) Coefficients() []fields.Element {
	c := append([]fields.Element(nil), m.evals...)
	for k := 0; k < m.numVars; k++ {
		step := 1 << k
		for i := 0; i < len(c); i += step << 1 {
			for j := i + step; j < i+(step<<1); j++ {
				c[j].Sub(&c[j], &c[j-step])
			}
		}
	}
	return c
}

// EvalCoefficients evaluates a monomial-basis coefficient vector (bit k of
// the index being the exponent of variable k) at the given point.
func EvalCoefficients(coeffs []fields.Element, point []fields.Element) (fields.Element, error) {
	if 1<<len(point) != len(coeffs) {
		return fields.Element{}, fmt.Errorf("%w: %d coefficients for %d variables",
			ErrShape, len(coeffs), len(point))
	}
	c := append([]fields.Element(nil), coeffs...)
	var t fields.Element
	for _, r := range point {
		half := len(c) >> 1
		for j := 0; j < half; j++ {
			t.Mul(&c[2*j+1], &r)
			c[j].Add(&c[2*j], &t)
		}
		c = c[:half]
	}
	return c[0], nil
}

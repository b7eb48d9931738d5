package polynomial

import (
	"MultilinearPCS/modules/fields"
)

// EqTable expands eq(z, x) for every x in {0,1}^len(z), scaled by factor.
// The table follows the multilinear index convention: bit i of the index
// matches variable z[i].
func EqTable(z []fields.Element, factor fields.Element) []fields.Element {
	out := make([]fields.Element, 1<<len(z))
	out[0] = factor
	for i := range z {
		half := 1 << i
		for j := 0; j < half; j++ {
			// v -> ((1 - r) v, r v)
			out[j+half].Mul(&out[j], &z[i])
			out[j].Sub(&out[j], &out[j+half])
		}
	}
	return out
}

// EqMultilinear returns eq(z, .) as a multilinear witness.
func EqMultilinear(z []fields.Element) *Multilinear {
	m, _ := NewMultilinear(EqTable(z, fields.One()))
	return m
}

// EqAt evaluates eq(z, r) = prod_i (z_i r_i + (1-z_i)(1-r_i)) directly.
func EqAt(z, r []fields.Element) (fields.Element, error) {
	if len(z) != len(r) {
		return fields.Element{}, ErrShape
	}
	one := fields.One()
	res := one
	var term fields.Element
	for i := range z {
		// z r + (1-z)(1-r) = 2 z r + 1 - z - r
		term.Mul(&z[i], &r[i])
		term.Double(&term)
		term.Add(&term, &one)
		term.Sub(&term, &z[i])
		term.Sub(&term, &r[i])
		res.Mul(&res, &term)
	}
	return res, nil
}

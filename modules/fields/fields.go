// Package fields binds the proof system to a concrete base field.
//
// Every other package consumes field arithmetic exclusively through the
// aliases and helpers defined here, so swapping the concrete field (or its
// packed/vectorized layout) is a one-file change.
package fields

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Element is one base field scalar.
type Element = fr.Element

// Vector is a contiguous slice of field elements.
type Vector = fr.Vector

// Bytes is the canonical serialized size of one element.
const Bytes = fr.Bytes

// PackWidth is the number of scalars the vectorized code paths group
// together; loops below this size are not worth sharding.
const PackWidth = 8

// Modulus returns the field modulus.
func Modulus() *big.Int {
	return fr.Modulus()
}

// Zero returns the additive identity.
func Zero() Element {
	var z Element
	return z
}

// One returns the multiplicative identity.
func One() Element {
	return fr.One()
}

// NewElement lifts a small integer into the field.
func NewElement(v uint64) Element {
	var e Element
	e.SetUint64(v)
	return e
}

// Random samples one uniform element.
func Random() Element {
	var e Element
	if _, err := e.SetRandom(); err != nil {
		panic(err)
	}
	return e
}

// RandomVector samples n uniform elements.
func RandomVector(n int) []Element {
	v := make([]Element, n)
	for i := range v {
		v[i] = Random()
	}
	return v
}

// BatchInvert inverts every element of a at the cost of a single field
// inversion. Zero entries stay zero.
func BatchInvert(a []Element) []Element {
	return fr.BatchInvert(a)
}

// Sum adds up every element of a.
func Sum(a []Element) Element {
	var s Element
	for i := range a {
		s.Add(&s, &a[i])
	}
	return s
}

// InnerProduct computes <a, b>.
func InnerProduct(a, b []Element) Element {
	if len(a) != len(b) {
		panic("inner product length mismatch")
	}
	var s, t Element
	for i := range a {
		t.Mul(&a[i], &b[i])
		s.Add(&s, &t)
	}
	return s
}

package polynomial

import (
	"testing"

	"github.com/stretchr/testify/require"

	"MultilinearPCS/modules/fields"
)

func TestEvaluateMatchesEqExpansion(t *testing.T) {
	m := Random(6)
	point := fields.RandomVector(6)

	got, err := m.Evaluate(point)
	require.NoError(t, err)

	// p(z) = sum_b eq(z, b) * p(b)
	want := fields.InnerProduct(EqTable(point, fields.One()), m.Table())
	require.True(t, got.Equal(&want))
}

func TestBindIsPartialEvaluation(t *testing.T) {
	m := Random(5)
	point := fields.RandomVector(5)

	bound := m.Clone()
	bound.Bind(point[0])
	bound.Bind(point[1])
	got, err := bound.Evaluate(point[2:])
	require.NoError(t, err)

	want, err := m.Evaluate(point)
	require.NoError(t, err)
	require.True(t, got.Equal(&want))
}

func TestCoefficientsRoundTrip(t *testing.T) {
	m := Random(7)
	point := fields.RandomVector(7)

	got, err := EvalCoefficients(m.Coefficients(), point)
	require.NoError(t, err)
	want, err := m.Evaluate(point)
	require.NoError(t, err)
	require.True(t, got.Equal(&want))
}

func TestCoefficientsOnBooleanInputs(t *testing.T) {
	m := Random(4)
	coeffs := m.Coefficients()
	point := make([]fields.Element, 4)
	for b := 0; b < 16; b++ {
		for i := range point {
			point[i] = fields.NewElement(uint64(b >> i & 1))
		}
		got, err := EvalCoefficients(coeffs, point)
		require.NoError(t, err)
		require.True(t, got.Equal(&m.Table()[b]), "mismatch at vertex %d", b)
	}
}

func TestEqAtMatchesEqMultilinear(t *testing.T) {
	z := fields.RandomVector(6)
	r := fields.RandomVector(6)

	want, err := EqMultilinear(z).Evaluate(r)
	require.NoError(t, err)
	got, err := EqAt(z, r)
	require.NoError(t, err)
	require.True(t, got.Equal(&want))
}

func TestEqTableIsIndicatorOnCube(t *testing.T) {
	z := make([]fields.Element, 3)
	target := 5
	for i := range z {
		z[i] = fields.NewElement(uint64(target >> i & 1))
	}
	table := EqTable(z, fields.One())
	for b := range table {
		if b == target {
			require.True(t, table[b].IsOne())
		} else {
			require.True(t, table[b].IsZero())
		}
	}
}

func TestEvalFromValuesInterpolates(t *testing.T) {
	// u(x) = 7 + 2x + 3x^2
	u := Univariate{fields.NewElement(7), fields.NewElement(2), fields.NewElement(3)}
	values := make([]fields.Element, 3)
	for i := range values {
		values[i] = u.Eval(fields.NewElement(uint64(i)))
	}

	r := fields.Random()
	got, err := EvalFromValues(values, r)
	require.NoError(t, err)
	want := u.Eval(r)
	require.True(t, got.Equal(&want))
}

func TestShapeErrors(t *testing.T) {
	_, err := NewMultilinear(fields.RandomVector(3))
	require.ErrorIs(t, err, ErrShape)

	m := Random(3)
	_, err = m.Evaluate(fields.RandomVector(2))
	require.ErrorIs(t, err, ErrShape)

	_, err = EvalCoefficients(fields.RandomVector(8), fields.RandomVector(2))
	require.ErrorIs(t, err, ErrShape)

	_, err = EvalFromValues(nil, fields.Random())
	require.ErrorIs(t, err, ErrShape)
}

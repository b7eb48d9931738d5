package polycommit

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"MultilinearPCS/modules/fields"
	"MultilinearPCS/modules/fri"
	"MultilinearPCS/modules/hasher"
	"MultilinearPCS/modules/polynomial"
)

func testScheme(t *testing.T, logBlowUp, securityBits, logFinalPoly int) Scheme {
	t.Helper()
	params, err := fri.NewParams(logBlowUp, securityBits, logFinalPoly, nil)
	require.NoError(t, err)
	return NewScheme(params, hasher.NewMiMC())
}

func TestCommitOpenVerify(t *testing.T) {
	scheme := testScheme(t, 2, 64, 3)
	p := polynomial.Random(10)
	point := fields.RandomVector(10)

	cm, ct, err := scheme.Commit(p)
	require.NoError(t, err)
	require.Equal(t, 10, cm.NumVars)

	value, proof, err := scheme.Open(ct, point)
	require.NoError(t, err)

	want, err := p.Evaluate(point)
	require.NoError(t, err)
	require.True(t, value.Equal(&want))

	require.NoError(t, scheme.Verify(cm, point, value, proof))
}

// Full-size parameter point: a 14-variable polynomial at blow-up 4
// (codeword length 2^16), final bound 2^4, which the default policy turns
// into 50 queries at 100 security bits.
func TestConcreteParameterSet(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size parameter set")
	}
	scheme := testScheme(t, 2, 100, 4)
	require.Equal(t, 50, scheme.Params().NumQueries)

	p := polynomial.Random(14)
	point := fields.RandomVector(14)
	cm, ct, err := scheme.Commit(p)
	require.NoError(t, err)
	require.Len(t, ct.codeword, 1<<16)

	value, proof, err := scheme.Open(ct, point)
	require.NoError(t, err)
	require.Len(t, proof.Queries, 50)
	require.NoError(t, scheme.Verify(cm, point, value, proof))
}

func TestOpenWithoutFolding(t *testing.T) {
	// numVars equals the final polynomial log length, so no fold rounds run
	scheme := testScheme(t, 2, 32, 4)
	p := polynomial.Random(4)
	point := fields.RandomVector(4)

	cm, ct, err := scheme.Commit(p)
	require.NoError(t, err)
	value, proof, err := scheme.Open(ct, point)
	require.NoError(t, err)
	require.NoError(t, scheme.Verify(cm, point, value, proof))
}

func TestOpenFullFolding(t *testing.T) {
	// final polynomial of length one: every variable is a fold round
	scheme := testScheme(t, 2, 32, 0)
	p := polynomial.Random(6)
	point := fields.RandomVector(6)

	cm, ct, err := scheme.Commit(p)
	require.NoError(t, err)
	value, proof, err := scheme.Open(ct, point)
	require.NoError(t, err)
	require.NoError(t, scheme.Verify(cm, point, value, proof))
}

func TestVerifyRejectsWrongValue(t *testing.T) {
	scheme := testScheme(t, 2, 32, 2)
	p := polynomial.Random(8)
	point := fields.RandomVector(8)

	cm, ct, err := scheme.Commit(p)
	require.NoError(t, err)
	value, proof, err := scheme.Open(ct, point)
	require.NoError(t, err)

	one := fields.One()
	value.Add(&value, &one)
	require.Error(t, scheme.Verify(cm, point, value, proof))
}

func TestVerifyRejectsWrongPoint(t *testing.T) {
	scheme := testScheme(t, 2, 32, 2)
	p := polynomial.Random(8)
	point := fields.RandomVector(8)

	cm, ct, err := scheme.Commit(p)
	require.NoError(t, err)
	value, proof, err := scheme.Open(ct, point)
	require.NoError(t, err)

	other := append([]fields.Element(nil), point...)
	other[3] = fields.Random()
	require.Error(t, scheme.Verify(cm, other, value, proof))
}

func TestVerifyRejectsTamperedStream(t *testing.T) {
	scheme := testScheme(t, 2, 32, 2)
	p := polynomial.Random(8)
	point := fields.RandomVector(8)

	cm, ct, err := scheme.Commit(p)
	require.NoError(t, err)
	value, proof, err := scheme.Open(ct, point)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	one := fields.One()
	for trial := 0; trial < 8; trial++ {
		tampered := append([]fields.Element(nil), proof.Stream...)
		pos := rng.Intn(len(tampered))
		tampered[pos].Add(&tampered[pos], &one)
		bad := &EvalProof{Stream: tampered, Queries: proof.Queries}
		require.Error(t, scheme.Verify(cm, point, value, bad), "stream position %d", pos)
	}
}

func TestVerifyRejectsTamperedOpening(t *testing.T) {
	scheme := testScheme(t, 2, 32, 2)
	p := polynomial.Random(8)
	point := fields.RandomVector(8)

	cm, ct, err := scheme.Commit(p)
	require.NoError(t, err)
	value, proof, err := scheme.Open(ct, point)
	require.NoError(t, err)

	queries := append([]fri.QueryProof(nil), proof.Queries...)
	queries[0].Base = append([]fri.PairOpening(nil), queries[0].Base...)
	one := fields.One()
	queries[0].Base[0].Left.Leaf.Add(&queries[0].Base[0].Left.Leaf, &one)
	bad := &EvalProof{Stream: proof.Stream, Queries: queries}
	require.Error(t, scheme.Verify(cm, point, value, bad))
}

func TestVerifyRejectsTruncatedQueries(t *testing.T) {
	scheme := testScheme(t, 2, 32, 2)
	p := polynomial.Random(8)
	point := fields.RandomVector(8)

	cm, ct, err := scheme.Commit(p)
	require.NoError(t, err)
	value, proof, err := scheme.Open(ct, point)
	require.NoError(t, err)

	bad := &EvalProof{Stream: proof.Stream, Queries: proof.Queries[:len(proof.Queries)-1]}
	require.ErrorIs(t, scheme.Verify(cm, point, value, bad), ErrShape)
}

func TestCommitRejectsUndersizedPolynomial(t *testing.T) {
	scheme := testScheme(t, 2, 32, 4)
	_, _, err := scheme.Commit(polynomial.Random(3))
	require.ErrorIs(t, err, ErrShape)
}

func TestOpenRejectsWrongPointSize(t *testing.T) {
	scheme := testScheme(t, 2, 32, 2)
	_, ct, err := scheme.Commit(polynomial.Random(6))
	require.NoError(t, err)
	_, _, err = scheme.Open(ct, fields.RandomVector(5))
	require.ErrorIs(t, err, ErrShape)
}

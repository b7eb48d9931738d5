package transcript

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"MultilinearPCS/modules/fields"
	"MultilinearPCS/modules/hasher"
)

func TestWriterReaderAgree(t *testing.T) {
	h := hasher.NewMiMC()

	statement := fields.RandomVector(3)
	sent := fields.RandomVector(5)

	w := NewWriter(h, "test.session")
	w.Absorb(statement...)
	c0 := w.Challenge()
	w.Write(sent[:2]...)
	c1 := w.Challenge()
	w.Write(sent[2:]...)
	cs := w.Challenges(3)
	idx := w.ChallengeIndices(4, 1<<10)

	rd := NewReader(h, "test.session", w.Proof())
	rd.Absorb(statement...)
	d0 := rd.Challenge()
	got, err := rd.NextMany(2)
	require.NoError(t, err)
	require.Equal(t, sent[:2], got)
	d1 := rd.Challenge()
	_, err = rd.NextMany(3)
	require.NoError(t, err)
	ds := rd.Challenges(3)
	jdx := rd.ChallengeIndices(4, 1<<10)
	require.NoError(t, rd.Done())

	require.True(t, c0.Equal(&d0))
	require.True(t, c1.Equal(&d1))
	require.Equal(t, cs, ds)
	require.Equal(t, idx, jdx)
	for _, i := range idx {
		require.Less(t, i, uint64(1<<10))
	}
}

func TestRepeatedChallengesDistinct(t *testing.T) {
	w := NewWriter(hasher.NewMiMC(), "test.rekey")
	w.Absorb(fields.NewElement(42))
	a := w.Challenge()
	b := w.Challenge()
	c := w.Challenge()
	require.False(t, a.Equal(&b))
	require.False(t, b.Equal(&c))
	require.False(t, a.Equal(&c))
}

func TestLabelSeparatesSessions(t *testing.T) {
	h := hasher.NewMiMC()
	w1 := NewWriter(h, "session.a")
	w2 := NewWriter(h, "session.b")
	e := fields.NewElement(7)
	w1.Absorb(e)
	w2.Absorb(e)
	a := w1.Challenge()
	b := w2.Challenge()
	require.False(t, a.Equal(&b))
}

func TestReaderDesync(t *testing.T) {
	h := hasher.NewMiMC()
	w := NewWriter(h, "test.desync")
	w.Write(fields.RandomVector(2)...)

	rd := NewReader(h, "test.desync", w.Proof())
	_, err := rd.Next()
	require.NoError(t, err)
	require.ErrorIs(t, rd.Done(), ErrDesync)

	_, err = rd.NextMany(2)
	require.ErrorIs(t, err, ErrDesync)

	short := NewReader(h, "test.desync", nil)
	_, err = short.Next()
	require.True(t, errors.Is(err, ErrDesync))
}

func TestChallengeIndexBoundMustBePowerOfTwo(t *testing.T) {
	w := NewWriter(hasher.NewMiMC(), "test.bound")
	require.Panics(t, func() { w.ChallengeIndices(1, 12) })
	require.Panics(t, func() { w.ChallengeIndices(1, 0) })
}

// Package transcript implements the deterministic Fiat-Shamir channel
// shared by prover and verifier.
//
// A Writer absorbs every prover message and records the prover-sent
// elements into an ordered stream; a Reader replays that stream and
// re-derives challenges from the same absorbed history. Two instances fed
// identical observation sequences produce identical challenge sequences;
// equality of the derived challenges is the synchronization oracle, never
// object identity.
package transcript

import (
	"encoding/binary"
	"errors"
	"fmt"

	"MultilinearPCS/modules/fields"
	"MultilinearPCS/modules/hasher"
)

// ErrDesync reports a reader running out of, or out of shape with, the
// recorded prover stream. It indicates a protocol or implementation bug in
// the calling session, not a rejected proof.
var ErrDesync = errors.New("transcript: reader desynchronized from stream")

// sponge is the absorb/squeeze state common to Writer and Reader.
type sponge struct {
	h hasher.FieldHasher

	// elements absorbed since the last challenge
	pending []fields.Element

	state fields.Element
	count uint
}

func newSponge(h hasher.FieldHasher, label string) sponge {
	s := sponge{h: h}
	s.pending = append(s.pending, labelElement(label))
	return s
}

// labelElement maps a domain-separation label into one field element. The
// leading byte stays zero so the value is canonical for any label up to
// Bytes-1 characters.
func labelElement(label string) fields.Element {
	var buf [fields.Bytes]byte
	tail := buf[1:]
	if len(label) > len(tail) {
		label = label[:len(tail)]
	}
	copy(tail, label)
	var e fields.Element
	e.SetBytes(buf[:])
	return e
}

func (s *sponge) absorb(es ...fields.Element) {
	s.pending = append(s.pending, es...)
}

// challenge derives the next pseudorandom element. With nothing new
// absorbed since the last draw, the state is re-hashed so repeated draws
// stay distinct yet reproducible.
func (s *sponge) challenge() fields.Element {
	if len(s.pending) > 0 {
		s.state = s.h.Hash(s.pending...)
		s.pending = s.pending[:0]
	} else {
		s.state = s.h.Hash(s.state)
	}
	s.count++
	return s.state
}

// challengeIndex derives one index in [0, bound); bound must be a power of
// two.
func (s *sponge) challengeIndex(bound uint64) uint64 {
	if bound == 0 || bound&(bound-1) != 0 {
		panic(fmt.Sprintf("transcript: index bound %d is not a power of two", bound))
	}
	c := s.challenge()
	b := c.Bytes()
	return binary.BigEndian.Uint64(b[len(b)-8:]) & (bound - 1)
}

// State returns the current squeeze state, for diagnostics and tests.
func (s *sponge) State() fields.Element {
	return s.state
}

// Count returns the number of hash squeezes so far.
func (s *sponge) Count() uint {
	return s.count
}

// A Writer is the prover-side transcript. It is exclusively owned by one
// proving session and must not be reused across proofs.
type Writer struct {
	sponge
	log []fields.Element
}

// NewWriter opens a prover transcript under a domain-separation label.
func NewWriter(h hasher.FieldHasher, label string) *Writer {
	return &Writer{sponge: newSponge(h, label)}
}

// Absorb observes verifier-computable data (statement, parameters). It is
// not recorded into the proof stream.
func (w *Writer) Absorb(es ...fields.Element) {
	w.absorb(es...)
}

// Write observes prover-sent data and records it into the proof stream in
// order.
func (w *Writer) Write(es ...fields.Element) {
	w.absorb(es...)
	w.log = append(w.log, es...)
}

// Challenge draws one challenge element.
func (w *Writer) Challenge() fields.Element {
	return w.challenge()
}

// Challenges draws n challenge elements.
func (w *Writer) Challenges(n int) []fields.Element {
	cs := make([]fields.Element, n)
	for i := range cs {
		cs[i] = w.challenge()
	}
	return cs
}

// ChallengeIndices draws n query indices in [0, bound).
func (w *Writer) ChallengeIndices(n int, bound uint64) []uint64 {
	idx := make([]uint64, n)
	for i := range idx {
		idx[i] = w.challengeIndex(bound)
	}
	return idx
}

// Proof returns the recorded prover element stream.
func (w *Writer) Proof() []fields.Element {
	return w.log
}

// A Reader is the verifier-side transcript: it replays a recorded stream,
// re-absorbing each prover element as it is consumed.
type Reader struct {
	sponge
	stream []fields.Element
	idx    int
}

// NewReader opens a verifier transcript over a recorded proof stream. The
// label must match the writer's.
func NewReader(h hasher.FieldHasher, label string, stream []fields.Element) *Reader {
	return &Reader{sponge: newSponge(h, label), stream: stream}
}

// Absorb observes verifier-computable data, mirroring Writer.Absorb.
func (r *Reader) Absorb(es ...fields.Element) {
	r.absorb(es...)
}

// Next consumes and absorbs the next prover element.
func (r *Reader) Next() (fields.Element, error) {
	if r.idx >= len(r.stream) {
		return fields.Element{}, fmt.Errorf("%w: read past element %d", ErrDesync, r.idx)
	}
	e := r.stream[r.idx]
	r.idx++
	r.absorb(e)
	return e, nil
}

// NextMany consumes and absorbs the next n prover elements.
func (r *Reader) NextMany(n int) ([]fields.Element, error) {
	if r.idx+n > len(r.stream) {
		return nil, fmt.Errorf("%w: need %d elements at offset %d, stream holds %d",
			ErrDesync, n, r.idx, len(r.stream))
	}
	es := r.stream[r.idx : r.idx+n]
	r.idx += n
	r.absorb(es...)
	return es, nil
}

// Challenge draws one challenge element.
func (r *Reader) Challenge() fields.Element {
	return r.challenge()
}

// Challenges draws n challenge elements.
func (r *Reader) Challenges(n int) []fields.Element {
	cs := make([]fields.Element, n)
	for i := range cs {
		cs[i] = r.challenge()
	}
	return cs
}

// ChallengeIndices draws n query indices in [0, bound).
func (r *Reader) ChallengeIndices(n int, bound uint64) []uint64 {
	idx := make([]uint64, n)
	for i := range idx {
		idx[i] = r.challengeIndex(bound)
	}
	return idx
}

// Done reports ErrDesync if recorded elements remain unconsumed.
func (r *Reader) Done() error {
	if r.idx != len(r.stream) {
		return fmt.Errorf("%w: %d trailing elements", ErrDesync, len(r.stream)-r.idx)
	}
	return nil
}

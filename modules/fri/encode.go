package fri

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"MultilinearPCS/modules/fields"
)

// Encode Reed-Solomon encodes a coefficient vector over the radix-2
// multiplicative domain of size len(coeffs) << logBlowUp. The returned
// codeword is in natural order: codeword[i] = f(g^i) for the domain
// generator g.
func Encode(coeffs []fields.Element, logBlowUp int) ([]fields.Element, *fft.Domain, error) {
	n := len(coeffs)
	if n == 0 || n&(n-1) != 0 {
		return nil, nil, fmt.Errorf("%w: coefficient count %d is not a power of two", ErrShape, n)
	}
	l := n << logBlowUp
	domain := fft.NewDomain(uint64(l))

	codeword := make([]fields.Element, l)
	copy(codeword, coeffs)
	domain.FFT(codeword, fft.DIF)
	fft.BitReverse(codeword)
	return codeword, domain, nil
}

// decode interpolates a natural-order codeword back to coefficient form.
func decode(codeword []fields.Element) []fields.Element {
	coeffs := append([]fields.Element(nil), codeword...)
	domain := fft.NewDomain(uint64(len(coeffs)))
	domain.FFTInverse(coeffs, fft.DIF)
	fft.BitReverse(coeffs)
	return coeffs
}

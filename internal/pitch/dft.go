package pitch

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// spectrum returns the unnormalized length-n DFT of samples.
//
// Lengths that factor into 2, 3 and 5 go straight to fftpack. Any other
// length is evaluated with Bluestein's chirp-z identity on power-of-two
// transforms, which keeps large prime factors from degrading to O(n²).
// Both paths produce the same n-point spectrum.
func spectrum(samples []float64) []complex128 {
	n := len(samples)
	seq := make([]complex128, n)
	for i, v := range samples {
		seq[i] = complex(v, 0)
	}

	if n <= 1 || isSmooth(n) {
		return fourier.NewCmplxFFT(n).Coefficients(nil, seq)
	}
	return bluestein(seq)
}

// isSmooth reports whether n has no prime factor above 5
func isSmooth(n int) bool {
	for _, p := range []int{2, 3, 5} {
		for n%p == 0 {
			n /= p
		}
	}
	return n == 1
}

func bluestein(seq []complex128) []complex128 {
	n := len(seq)
	m := 1
	for m < 2*n-1 {
		m <<= 1
	}

	// chirp[k] = exp(-iπk²/n); k² is reduced mod 2n to keep the angle exact
	chirp := make([]complex128, n)
	mod := int64(2 * n)
	for k := 0; k < n; k++ {
		kk := int64(k) * int64(k) % mod
		chirp[k] = cmplx.Rect(1, -math.Pi*float64(kk)/float64(n))
	}

	a := make([]complex128, m)
	b := make([]complex128, m)
	for k := 0; k < n; k++ {
		a[k] = seq[k] * chirp[k]
	}
	b[0] = cmplx.Conj(chirp[0])
	for k := 1; k < n; k++ {
		b[k] = cmplx.Conj(chirp[k])
		b[m-k] = b[k]
	}

	fft := fourier.NewCmplxFFT(m)
	fa := fft.Coefficients(nil, a)
	fb := fft.Coefficients(nil, b)
	for i := range fa {
		fa[i] *= fb[i]
	}
	conv := fft.Sequence(nil, fa)

	out := make([]complex128, n)
	scale := complex(1/float64(m), 0)
	for k := 0; k < n; k++ {
		out[k] = conv[k] * scale * chirp[k]
	}
	return out
}

// binFrequency maps DFT index i of an n-point transform to Hz, negative
// for the mirrored half
func binFrequency(i, n int, rate float64) float64 {
	if i <= (n-1)/2 {
		return float64(i) * rate / float64(n)
	}
	return float64(i-n) * rate / float64(n)
}

// Package pitch estimates a speaker's fundamental frequency from the
// spectral peak inside a voice band and maps it to a coarse label.
//
// The estimate is a plain DFT over the whole recording with no windowing
// or zero-padding. Frequency resolution is sampleRate/N, so short
// recordings resolve the band coarsely and strong harmonics or leakage
// can move the peak.
package pitch

import (
	"math/cmplx"

	"github.com/RMahshie/pitchscope/internal/audio"
)

// Default voice band limits in Hz, both exclusive.
const (
	DefaultBandLowHz  = 100.0
	DefaultBandHighHz = 450.0
)

// Band is an open frequency interval (Low, High) in Hz
type Band struct {
	Low  float64
	High float64
}

// Contains reports whether f lies strictly inside the band
func (b Band) Contains(f float64) bool {
	return f > b.Low && f < b.High
}

// Estimate is a dominant frequency or the undetermined marker
type Estimate struct {
	Hz         float64
	Magnitude  float64
	Determined bool
}

// Undetermined is returned when the band holds no usable energy
var Undetermined = Estimate{}

// Estimator picks the strongest spectral bin inside a voice band
type Estimator struct {
	band Band
}

// NewEstimator creates an estimator for the given band
func NewEstimator(band Band) *Estimator {
	return &Estimator{band: band}
}

// Estimate computes the full complex spectrum of sig and returns the
// frequency of the largest-magnitude bin inside the band.
func (e *Estimator) Estimate(sig audio.MonoSignal) Estimate {
	n := sig.Len()
	if n == 0 || sig.SampleRate <= 0 {
		return Undetermined
	}

	coeffs := spectrum(sig.Samples)
	rate := float64(sig.SampleRate)

	best := Undetermined
	for i, c := range coeffs {
		f := binFrequency(i, n, rate)
		if !e.band.Contains(f) {
			continue
		}
		// ties keep the lowest bin
		if m := cmplx.Abs(c); m > best.Magnitude {
			best = Estimate{Hz: f, Magnitude: m, Determined: true}
		}
	}

	return best
}

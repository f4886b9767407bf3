package audio

import (
	"errors"
	"fmt"
)

// ErrEmptySignal is returned when a buffer holds no frames to analyze
var ErrEmptySignal = errors.New("audio: signal has no samples")

// PCMBuffer holds interleaved samples normalized to [-1, 1)
type PCMBuffer struct {
	Samples    []float64
	Channels   int
	SampleRate int
}

// Frames returns the number of samples per channel
func (b *PCMBuffer) Frames() int {
	if b.Channels < 1 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Validate checks the buffer invariants
func (b *PCMBuffer) Validate() error {
	if b.Channels < 1 {
		return fmt.Errorf("audio: invalid channel count %d", b.Channels)
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("audio: invalid sample rate %d", b.SampleRate)
	}
	if len(b.Samples)%b.Channels != 0 {
		return fmt.Errorf("audio: %d samples is not a multiple of %d channels", len(b.Samples), b.Channels)
	}
	return nil
}

// MonoSignal is a single analysis channel
type MonoSignal struct {
	Samples    []float64
	SampleRate int
}

// Len returns the number of samples
func (s MonoSignal) Len() int {
	return len(s.Samples)
}

// Duration returns the signal length in seconds
func (s MonoSignal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Reduce selects the first channel of a buffer.
//
// This is channel selection, not a downmix: any other channels are dropped.
func Reduce(buf *PCMBuffer) (MonoSignal, error) {
	if buf == nil {
		return MonoSignal{}, ErrEmptySignal
	}
	if err := buf.Validate(); err != nil {
		return MonoSignal{}, err
	}

	frames := buf.Frames()
	if frames == 0 {
		return MonoSignal{}, ErrEmptySignal
	}

	if buf.Channels == 1 {
		samples := make([]float64, frames)
		copy(samples, buf.Samples)
		return MonoSignal{Samples: samples, SampleRate: buf.SampleRate}, nil
	}

	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		samples[i] = buf.Samples[i*buf.Channels]
	}

	return MonoSignal{Samples: samples, SampleRate: buf.SampleRate}, nil
}

// TimeAxis returns the sample instants of s in seconds, from 0 to (N-1)/rate
func TimeAxis(s MonoSignal) []float64 {
	axis := make([]float64, len(s.Samples))
	if s.SampleRate <= 0 {
		return axis
	}
	rate := float64(s.SampleRate)
	for i := range axis {
		axis[i] = float64(i) / rate
	}
	return axis
}

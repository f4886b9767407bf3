package pitch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/pitchscope/internal/audio"
)

func sine(freq float64, sampleRate int, seconds float64) audio.MonoSignal {
	n := int(float64(sampleRate) * seconds)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return audio.MonoSignal{Samples: samples, SampleRate: sampleRate}
}

func defaultEstimator() *Estimator {
	return NewEstimator(Band{Low: DefaultBandLowHz, High: DefaultBandHighHz})
}

func TestEstimate_SineWithinOneBin(t *testing.T) {
	tests := []struct {
		freq    float64
		seconds float64
	}{
		{110, 1},
		{150, 1},
		{220, 2},
		{300, 1},
		{441.5, 1},
		{187.3, 0.5},
	}

	for _, tt := range tests {
		sig := sine(tt.freq, 44100, tt.seconds)
		binWidth := float64(sig.SampleRate) / float64(sig.Len())

		est := defaultEstimator().Estimate(sig)
		require.True(t, est.Determined, "freq %.1f", tt.freq)
		assert.InDelta(t, tt.freq, est.Hz, binWidth, "freq %.1f", tt.freq)
		assert.True(t, est.Hz > DefaultBandLowHz && est.Hz < DefaultBandHighHz)
	}
}

func TestEstimate_IgnoresEnergyOutsideBand(t *testing.T) {
	loud := sine(60, 44100, 1)
	quiet := sine(250, 44100, 1)
	for i := range loud.Samples {
		loud.Samples[i] += 0.1 * quiet.Samples[i]
	}

	est := defaultEstimator().Estimate(loud)
	require.True(t, est.Determined)
	assert.InDelta(t, 250, est.Hz, 1)
}

func TestEstimate_Silence(t *testing.T) {
	sig := audio.MonoSignal{Samples: make([]float64, 4410), SampleRate: 44100}

	est := defaultEstimator().Estimate(sig)
	assert.False(t, est.Determined)
	assert.Equal(t, Unclassified, NewClassifier(DefaultThresholdHz).Classify(est))
}

func TestEstimate_NoBinsInBand(t *testing.T) {
	// resolution of 4410 Hz skips the whole band
	sig := sine(200, 44100, 0.0002)
	require.Equal(t, 8, sig.Len())

	assert.Equal(t, Undetermined, defaultEstimator().Estimate(sig))
}

func TestEstimate_Degenerate(t *testing.T) {
	est := defaultEstimator()
	assert.False(t, est.Estimate(audio.MonoSignal{SampleRate: 44100}).Determined)
	assert.False(t, est.Estimate(audio.MonoSignal{Samples: []float64{1, 2}, SampleRate: 0}).Determined)
}

func TestEstimate_CustomBand(t *testing.T) {
	sig := sine(600, 44100, 1)

	wide := NewEstimator(Band{Low: 500, High: 700})
	est := wide.Estimate(sig)
	require.True(t, est.Determined)
	assert.InDelta(t, 600, est.Hz, 1)
}

func TestBandContains(t *testing.T) {
	b := Band{Low: 100, High: 450}
	assert.False(t, b.Contains(100))
	assert.False(t, b.Contains(450))
	assert.False(t, b.Contains(-200))
	assert.True(t, b.Contains(100.5))
	assert.True(t, b.Contains(449.9))
}

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultThresholdHz)

	tests := []struct {
		name string
		est  Estimate
		want Label
	}{
		{"low voice", Estimate{Hz: 150, Determined: true}, Male},
		{"high voice", Estimate{Hz: 300, Determined: true}, Female},
		{"threshold is male", Estimate{Hz: 175, Determined: true}, Male},
		{"just above threshold", Estimate{Hz: 175.01, Determined: true}, Female},
		{"undetermined", Undetermined, Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.est))
		})
	}
}

func TestClassify_Sines(t *testing.T) {
	est := defaultEstimator()
	c := NewClassifier(DefaultThresholdHz)

	assert.Equal(t, Male, c.Classify(est.Estimate(sine(150, 44100, 1))))
	assert.Equal(t, Female, c.Classify(est.Estimate(sine(300, 44100, 1))))
}

func TestSummary(t *testing.T) {
	assert.Equal(t,
		"The pitch frequency of your voice is 220.0 Hz. You are most likely a male.",
		Summary(Estimate{Hz: 220.0000001, Determined: true}, Male))
	assert.Equal(t,
		"The pitch frequency of your voice is 212.3 Hz. You are most likely a female.",
		Summary(Estimate{Hz: 212.34, Determined: true}, Female))
	assert.Equal(t, "Could not determine pitch frequency.", Summary(Undetermined, Unclassified))
}

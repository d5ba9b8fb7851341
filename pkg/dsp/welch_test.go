package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return out
}

func TestWelchPeakAtSineFrequency(t *testing.T) {
	const sampleRate = 256.0
	signal := sine(10, sampleRate, 4*256)

	psd := WelchPSD(signal, sampleRate, 256)
	require.Len(t, psd.Freqs, 129) // one-sided, 1 Hz bins

	peak := 0
	for k := range psd.Pxx {
		if psd.Pxx[k] > psd.Pxx[peak] {
			peak = k
		}
	}
	assert.Equal(t, 10.0, psd.Freqs[peak])
}

func TestWelchTotalPowerOfSine(t *testing.T) {
	const sampleRate = 256.0
	signal := sine(10, sampleRate, 8*256)

	psd := WelchPSD(signal, sampleRate, 256)

	// Integrating the density recovers the signal power A^2/2.
	df := sampleRate / 256
	total := 0.0
	for _, p := range psd.Pxx {
		total += p * df
	}
	assert.InDelta(t, 0.5, total, 0.05)
}

func TestWelchDeterministic(t *testing.T) {
	signal := sine(12, 256, 1024)

	a := WelchPSD(signal, 256, 256)
	b := WelchPSD(signal, 256, 256)

	assert.Equal(t, a.Freqs, b.Freqs)
	assert.Equal(t, a.Pxx, b.Pxx)
}

func TestWelchSegmentClamp(t *testing.T) {
	signal := sine(10, 256, 100)

	// Requested segment exceeds the signal; it clamps to one segment.
	psd := WelchPSD(signal, 256, 256)
	assert.Len(t, psd.Freqs, 51)
	assert.Len(t, psd.Pxx, 51)
}

func TestWelchShortSignal(t *testing.T) {
	psd := WelchPSD([]float64{1}, 256, 256)
	assert.Empty(t, psd.Freqs)
	assert.Empty(t, psd.Pxx)

	psd = WelchPSD(nil, 256, 256)
	assert.Empty(t, psd.Pxx)
}

func TestWelchConstantSignalDetrended(t *testing.T) {
	signal := make([]float64, 1024)
	for i := range signal {
		signal[i] = 42.0
	}

	// Mean removal leaves nothing; every bin should be ~0.
	psd := WelchPSD(signal, 256, 256)
	for k, p := range psd.Pxx {
		assert.InDelta(t, 0.0, p, 1e-18, "bin %d", k)
	}
}

func TestHannWindowPeriodic(t *testing.T) {
	w := HannWindow(8)
	require.Len(t, w, 8)

	assert.Equal(t, 0.0, w[0])
	// Periodic symmetry: w[k] == w[N-k] for k >= 1.
	for k := 1; k < 8; k++ {
		assert.InDelta(t, w[8-k], w[k], 1e-12)
	}

	assert.Equal(t, []float64{1}, HannWindow(1))
}

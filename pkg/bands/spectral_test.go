package bands

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineWindow(freq, amplitude, sampleRate float64, channels, samples int) [][]float64 {
	window := make([][]float64, channels)
	for c := range window {
		window[c] = make([]float64, samples)
		for i := range window[c] {
			window[c][i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
		}
	}
	return window
}

func bandIndex(table []Band, name string) int {
	for i, b := range table {
		if b.Name == name {
			return i
		}
	}
	return -1
}

func TestEstimateAlphaDominant(t *testing.T) {
	est := NewSpectralEstimator(SpectralConfig{
		Bands:      DefaultBands(),
		SampleRate: 256,
	})

	// A 10 Hz tone lands squarely in the alpha band.
	window := sineWindow(10, 50, 256, 4, 4*256)
	powers := est.Estimate(window)
	require.Len(t, powers, len(DefaultBands()))

	alpha := bandIndex(est.Bands(), "Alpha")
	require.GreaterOrEqual(t, alpha, 0)
	for i, p := range powers {
		if i == alpha {
			continue
		}
		assert.Greater(t, powers[alpha], p,
			"alpha should dominate %s", est.Bands()[i].Name)
	}
}

func TestEstimateDeterministic(t *testing.T) {
	est := NewSpectralEstimator(SpectralConfig{
		Bands:      DefaultBands(),
		SampleRate: 256,
	})
	window := sineWindow(10, 50, 256, 4, 256)

	first := est.Estimate(window)
	second := est.Estimate(window)
	assert.Equal(t, first, second)
}

func TestEstimateEmptyWindow(t *testing.T) {
	est := NewSpectralEstimator(SpectralConfig{
		Bands:      DefaultBands(),
		SampleRate: 256,
	})

	powers := est.Estimate(nil)
	assert.Equal(t, make([]float64, len(DefaultBands())), powers)

	powers = est.Estimate([][]float64{{}, {}})
	assert.Equal(t, make([]float64, len(DefaultBands())), powers)
}

func TestEstimateHemisphericSign(t *testing.T) {
	est := NewSpectralEstimator(SpectralConfig{
		Bands:       DefaultBands(),
		SampleRate:  256,
		Aggregation: AggregateHemispheric,
	})

	// Left channels (TP9, AF7) carry a stronger alpha tone than the right.
	window := sineWindow(10, 2, 256, 4, 4*256)
	for c := 2; c < 4; c++ {
		for i := range window[c] {
			window[c][i] *= 0.5
		}
	}

	powers := est.Estimate(window)
	alpha := bandIndex(est.Bands(), "Alpha")
	assert.Greater(t, powers[alpha], 0.0)

	// Mirrored amplitudes flip the sign.
	mirrored := sineWindow(10, 2, 256, 4, 4*256)
	for c := 0; c < 2; c++ {
		for i := range mirrored[c] {
			mirrored[c][i] *= 0.5
		}
	}
	powers = est.Estimate(mirrored)
	assert.Less(t, powers[alpha], 0.0)
}

func TestEstimateHemisphericBalanced(t *testing.T) {
	est := NewSpectralEstimator(SpectralConfig{
		Bands:       DefaultBands(),
		SampleRate:  256,
		Aggregation: AggregateHemispheric,
	})

	// Identical hemispheres cancel exactly.
	window := sineWindow(10, 50, 256, 4, 4*256)
	powers := est.Estimate(window)
	for i, p := range powers {
		assert.InDelta(t, 0.0, p, 1e-12, "band %s", est.Bands()[i].Name)
	}
}

func TestEstimateHemisphericFallsBackToAverage(t *testing.T) {
	hemispheric := NewSpectralEstimator(SpectralConfig{
		Bands:        DefaultBands(),
		SampleRate:   256,
		Aggregation:  AggregateHemispheric,
		LeftChannels: []int{0}, // too few for a laterality estimate
	})
	average := NewSpectralEstimator(SpectralConfig{
		Bands:      DefaultBands(),
		SampleRate: 256,
	})

	window := sineWindow(10, 50, 256, 4, 2*256)
	assert.Equal(t, average.Estimate(window), hemispheric.Estimate(window))
}

func TestEstimateHemisphericChannelOutOfRange(t *testing.T) {
	est := NewSpectralEstimator(SpectralConfig{
		Bands:       DefaultBands(),
		SampleRate:  256,
		Aggregation: AggregateHemispheric,
	})

	// Only two channels present: default right side {2, 3} is out of range,
	// so the estimate degrades to the channel average.
	window := sineWindow(10, 50, 256, 2, 2*256)
	average := NewSpectralEstimator(SpectralConfig{
		Bands:      DefaultBands(),
		SampleRate: 256,
	})
	assert.Equal(t, average.Estimate(window), est.Estimate(window))
}

func TestDefaultBandsCoverClinicalRanges(t *testing.T) {
	table := DefaultBands()
	require.Len(t, table, 5)

	assert.Equal(t, "Delta", table[0].Name)
	assert.Equal(t, 0.5, table[0].Low)
	assert.Equal(t, "Gamma", table[4].Name)
	assert.Equal(t, 45.0, table[4].High)

	// Contiguous, ascending edges.
	for i := 1; i < len(table); i++ {
		assert.Equal(t, table[i-1].High, table[i].Low)
	}
}

package bands

import (
	"math"

	"github.com/bishalpaudel/EEG-muse/pkg/dsp"
)

// logEpsilon keeps the log-power finite when a band carries no power.
const logEpsilon = 1e-6

// Aggregation selects how per-channel band powers collapse into one value.
type Aggregation string

const (
	// AggregateAverage is the mean power across all channels in the window.
	AggregateAverage Aggregation = "average"
	// AggregateHemispheric is mean(left channels) - mean(right channels),
	// a laterality signal. Requires at least two channels per side.
	AggregateHemispheric Aggregation = "hemispheric"
)

// SpectralConfig parameterizes the windowed PSD estimator.
type SpectralConfig struct {
	Bands       []Band
	SampleRate  float64
	Aggregation Aggregation
	// LeftChannels and RightChannels index into the analysis window for the
	// hemispheric mode. Defaults: {0, 1} (TP9, AF7) and {2, 3} (AF8, TP10).
	LeftChannels  []int
	RightChannels []int
}

// SpectralEstimator computes per-band log power over one analysis window of
// raw samples via Welch's method. It is stateless: the same window and
// configuration always produce identical output.
type SpectralEstimator struct {
	cfg SpectralConfig
}

// NewSpectralEstimator creates an estimator. Hemispheric channel subsets
// default to the standard Muse ordering TP9, AF7, AF8, TP10.
func NewSpectralEstimator(cfg SpectralConfig) *SpectralEstimator {
	if cfg.LeftChannels == nil {
		cfg.LeftChannels = []int{0, 1}
	}
	if cfg.RightChannels == nil {
		cfg.RightChannels = []int{2, 3}
	}
	return &SpectralEstimator{cfg: cfg}
}

// Bands returns the band table in estimator order.
func (e *SpectralEstimator) Bands() []Band {
	return e.cfg.Bands
}

// Estimate computes log10(band power + epsilon) per band for one window.
// The window is channel-major: one sample slice per channel, equal lengths.
// A zero-length window returns a zero vector rather than failing.
func (e *SpectralEstimator) Estimate(window [][]float64) []float64 {
	out := make([]float64, len(e.cfg.Bands))
	if len(window) == 0 || len(window[0]) == 0 {
		return out
	}

	samples := len(window[0])
	segLen := min(samples, int(e.cfg.SampleRate))

	psds := make([]*dsp.PSDEstimate, len(window))
	for c, channel := range window {
		psds[c] = dsp.WelchPSD(channel, e.cfg.SampleRate, segLen)
	}
	freqs := psds[0].Freqs

	hemispheric := e.cfg.Aggregation == AggregateHemispheric &&
		len(e.cfg.LeftChannels) >= 2 && len(e.cfg.RightChannels) >= 2 &&
		maxIndex(e.cfg.LeftChannels) < len(window) && maxIndex(e.cfg.RightChannels) < len(window)

	for i, band := range e.cfg.Bands {
		if hemispheric {
			// Laterality in log scale: the raw power difference can be
			// negative, which has no logarithm, so each side is compressed
			// before subtracting.
			left := meanBandPower(psds, e.cfg.LeftChannels, freqs, band)
			right := meanBandPower(psds, e.cfg.RightChannels, freqs, band)
			out[i] = math.Log10(left+logEpsilon) - math.Log10(right+logEpsilon)
			continue
		}
		all := make([]int, len(window))
		for c := range window {
			all[c] = c
		}
		power := meanBandPower(psds, all, freqs, band)
		out[i] = math.Log10(power + logEpsilon)
	}
	return out
}

// meanBandPower averages PSD bins with low <= f <= high across the selected
// channels.
func meanBandPower(psds []*dsp.PSDEstimate, channels []int, freqs []float64, band Band) float64 {
	sum := 0.0
	count := 0
	for _, c := range channels {
		for k, f := range freqs {
			if f >= band.Low && f <= band.High {
				sum += psds[c].Pxx[k]
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func maxIndex(idx []int) int {
	m := idx[0]
	for _, v := range idx[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

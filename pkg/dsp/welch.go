package dsp

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PSDEstimate is a one-sided power spectral density.
type PSDEstimate struct {
	Freqs []float64 // bin center frequencies in Hz
	Pxx   []float64 // power density per bin
}

// WelchPSD estimates the one-sided power spectral density of a signal via
// Welch's method: the signal is split into mean-detrended, Hann-windowed
// segments with 50% overlap and their periodograms are averaged with
// density scaling.
//
// segLen is clamped to the signal length. A signal shorter than two samples
// yields an empty estimate.
func WelchPSD(signal []float64, sampleRate float64, segLen int) *PSDEstimate {
	if segLen > len(signal) {
		segLen = len(signal)
	}
	if segLen < 2 {
		return &PSDEstimate{Freqs: []float64{}, Pxx: []float64{}}
	}

	window := HannWindow(segLen)
	winPower := 0.0
	for _, w := range window {
		winPower += w * w
	}
	scale := 1 / (sampleRate * winPower)

	step := segLen - segLen/2 // 50% overlap
	numSegments := (len(signal)-segLen)/step + 1

	bins := segLen/2 + 1
	pxx := make([]float64, bins)
	segment := make([]float64, segLen)

	for s := 0; s < numSegments; s++ {
		start := s * step
		copy(segment, signal[start:start+segLen])

		// Constant detrend: remove the segment mean before windowing.
		mean := 0.0
		for _, v := range segment {
			mean += v
		}
		mean /= float64(segLen)
		for i := range segment {
			segment[i] = (segment[i] - mean) * window[i]
		}

		spectrum := fft.FFTReal(segment)
		for k := 0; k < bins; k++ {
			mag := cmplx.Abs(spectrum[k])
			pxx[k] += mag * mag
		}
	}

	for k := 0; k < bins; k++ {
		pxx[k] = pxx[k] / float64(numSegments) * scale
	}
	// One-sided spectrum: fold the negative frequencies into every bin
	// except DC and Nyquist.
	for k := 1; k < bins-1; k++ {
		pxx[k] *= 2
	}
	if segLen%2 != 0 && bins > 1 {
		pxx[bins-1] *= 2 // odd segment length has no Nyquist bin
	}

	freqs := make([]float64, bins)
	for k := 0; k < bins; k++ {
		freqs[k] = float64(k) * sampleRate / float64(segLen)
	}
	return &PSDEstimate{Freqs: freqs, Pxx: pxx}
}

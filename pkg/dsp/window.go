package dsp

import "math"

// HannWindow returns periodic Hann coefficients, the variant used for
// spectral estimation (DFT-even, matching scipy's default for welch).
func HannWindow(size int) []float64 {
	w := make([]float64, size)
	if size == 1 {
		w[0] = 1
		return w
	}
	for i := 0; i < size; i++ {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size)))
	}
	return w
}

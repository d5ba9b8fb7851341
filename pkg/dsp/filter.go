package dsp

// Filter applies an IIR transfer function to a stream of chunks, carrying
// its internal state across calls so that filtering chunk-by-chunk is
// numerically identical to filtering the concatenated signal in one call.
//
// The state vector is initialized to the step-response steady state, so a
// constant input produces a constant output with no start-up transient.
type Filter struct {
	coeffs *Coefficients
	zi     []float64
}

// NewLowpassFilter designs a Butterworth lowpass and wraps it in a stateful
// streaming filter.
func NewLowpassFilter(cutoff, sampleRate float64, order int) (*Filter, error) {
	coeffs, err := DesignLowpass(cutoff, sampleRate, order)
	if err != nil {
		return nil, err
	}
	return NewFilter(coeffs), nil
}

// NewBandpassFilter designs a Butterworth bandpass and wraps it in a
// stateful streaming filter.
func NewBandpassFilter(low, high, sampleRate float64, order int) (*Filter, error) {
	coeffs, err := DesignBandpass(low, high, sampleRate, order)
	if err != nil {
		return nil, err
	}
	return NewFilter(coeffs), nil
}

// NewFilter wraps already-designed coefficients in a streaming filter.
// Both polynomials need at least two terms and equal length, as the Design
// functions produce; anything else cannot carry filter state.
func NewFilter(coeffs *Coefficients) *Filter {
	if len(coeffs.A) < 2 || len(coeffs.B) != len(coeffs.A) {
		panic("dsp: filter coefficients must be equal-length with order >= 1")
	}
	return &Filter{
		coeffs: coeffs,
		zi:     steadyState(coeffs),
	}
}

// Coefficients returns the transfer function this filter applies.
func (f *Filter) Coefficients() *Coefficients {
	return f.coeffs
}

// Process filters one chunk and advances the internal state. The returned
// slice has the same length as the input. An empty chunk is a no-op.
func (f *Filter) Process(chunk []float64) []float64 {
	out := make([]float64, len(chunk))
	if len(chunk) == 0 {
		return out
	}

	b := f.coeffs.B
	a := f.coeffs.A
	n := len(a) - 1

	// Transposed direct-form II. The state update never observes a partially
	// written vector, so a caller-visible failure cannot corrupt zi.
	z := f.zi
	for i, x := range chunk {
		y := b[0]*x + z[0]
		for j := 0; j < n-1; j++ {
			z[j] = b[j+1]*x - a[j+1]*y + z[j+1]
		}
		z[n-1] = b[n]*x - a[n]*y
		out[i] = y
	}
	return out
}

// Reset restores the filter to its initial steady state, as when a pipeline
// is torn down and rebuilt.
func (f *Filter) Reset() {
	f.zi = steadyState(f.coeffs)
}

// steadyState computes the transposed direct-form II state for which a unit
// step input produces the DC-gain output from the first sample, matching
// scipy's lfilter_zi.
func steadyState(coeffs *Coefficients) []float64 {
	b := coeffs.B
	a := coeffs.A
	n := len(a) - 1

	sumB, sumA := 0.0, 0.0
	for _, v := range b {
		sumB += v
	}
	for _, v := range a {
		sumA += v
	}
	k := sumB / sumA // DC gain

	zi := make([]float64, n)
	zi[n-1] = b[n] - a[n]*k
	for i := n - 2; i >= 0; i-- {
		zi[i] = zi[i+1] + b[i+1] - a[i+1]*k
	}
	return zi
}

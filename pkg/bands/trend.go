package bands

import "math"

// PowerSeries is an ordered per-band power sequence over time. Values are
// indexed [band][step] in band-table order; Times holds the window start in
// seconds, beginning at 0.
type PowerSeries struct {
	Bands  []Band      `json:"bands"`
	Times  []float64   `json:"times"`
	Values [][]float64 `json:"values"`
}

// BandValues returns the raw series for a band name, or nil when the band is
// not in the table.
func (s *PowerSeries) BandValues(name string) []float64 {
	for i, b := range s.Bands {
		if b.Name == name {
			return s.Values[i]
		}
	}
	return nil
}

// TrendBuilder drives a SpectralEstimator across a finite recording at a
// fixed hop, producing one power value per band per time step.
type TrendBuilder struct {
	estimator *SpectralEstimator
	// WindowSize is the analysis window in samples (default: 1 second).
	WindowSize int
	// StepSize is the hop in samples. It is carried as a float so a 10 Hz
	// update rate at 256 Hz steps by exactly 25.6 samples.
	StepSize float64
}

// NewTrendBuilder creates a builder with a 1-second window hopping at the
// given update rate.
func NewTrendBuilder(estimator *SpectralEstimator, sampleRate float64, updateRate float64) *TrendBuilder {
	return &TrendBuilder{
		estimator:  estimator,
		WindowSize: int(sampleRate),
		StepSize:   sampleRate / updateRate,
	}
}

// Build slides the analysis window across channel-major data and estimates
// band powers at each step. The step index i starts at sample
// int(i*StepSize) and runs while start+WindowSize <= total samples.
func (tb *TrendBuilder) Build(channels [][]float64, sampleRate float64) *PowerSeries {
	series := &PowerSeries{
		Bands:  tb.estimator.Bands(),
		Values: make([][]float64, len(tb.estimator.Bands())),
	}
	if len(channels) == 0 {
		return series
	}
	total := len(channels[0])

	window := make([][]float64, len(channels))
	for i := 0; ; i++ {
		start := int(float64(i) * tb.StepSize)
		if start+tb.WindowSize > total {
			break
		}
		for c, channel := range channels {
			window[c] = channel[start : start+tb.WindowSize]
		}
		powers := tb.estimator.Estimate(window)
		series.Times = append(series.Times, float64(start)/sampleRate)
		for b, p := range powers {
			series.Values[b] = append(series.Values[b], p)
		}
	}
	return series
}

// MovingAverage derives a centered moving-average trend from a raw series.
// Positions where the full window does not fit are backward-filled from the
// first complete value, then forward-filled, so the trend has no gaps at the
// boundaries.
func MovingAverage(raw []float64, window int) []float64 {
	trend := make([]float64, len(raw))
	if len(raw) == 0 {
		return trend
	}
	if window < 1 {
		window = 1
	}

	before := (window - 1) / 2
	after := window / 2
	for i := range trend {
		trend[i] = math.NaN()
	}
	for i := before; i+after < len(raw); i++ {
		sum := 0.0
		for j := i - before; j <= i+after; j++ {
			sum += raw[j]
		}
		trend[i] = sum / float64(window)
	}

	// Backward fill, then forward fill.
	for i := len(trend) - 2; i >= 0; i-- {
		if math.IsNaN(trend[i]) && !math.IsNaN(trend[i+1]) {
			trend[i] = trend[i+1]
		}
	}
	for i := 1; i < len(trend); i++ {
		if math.IsNaN(trend[i]) {
			trend[i] = trend[i-1]
		}
	}
	// A series shorter than the window has no complete position at all; fall
	// back to the plain mean.
	if math.IsNaN(trend[0]) {
		mean := 0.0
		for _, v := range raw {
			mean += v
		}
		mean /= float64(len(raw))
		for i := range trend {
			trend[i] = mean
		}
	}
	return trend
}

// Trend returns the moving-average trend for every band of a series.
func (s *PowerSeries) Trend(window int) [][]float64 {
	trends := make([][]float64, len(s.Values))
	for i, raw := range s.Values {
		trends[i] = MovingAverage(raw, window)
	}
	return trends
}

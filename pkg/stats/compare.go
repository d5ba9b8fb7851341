// Package stats quantifies whether two recordings differ in a band's power
// trend: z-score outlier removal followed by a Welch two-sample t-test.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Result is the immutable outcome of one comparison. When Valid is false the
// series had too few analyzable points and the remaining fields are zero.
type Result struct {
	Valid         bool    `json:"valid"`
	Err           string  `json:"error,omitempty"`
	BandName      string  `json:"band_name,omitempty"`
	MeanA         float64 `json:"mean_a"`
	MeanB         float64 `json:"mean_b"`
	PercentChange float64 `json:"percent_change"`
	TStatistic    float64 `json:"t_statistic"`
	PValue        float64 `json:"p_value"`
	Significant   bool    `json:"significant"`
	Conclusion    string  `json:"conclusion,omitempty"`
}

// Analyzer compares band power series from two recordings.
type Analyzer struct {
	// SigmaThreshold is the z-score outlier cut (values further than this
	// many standard deviations from the mean are discarded).
	SigmaThreshold float64
	// Significance is the p-value threshold, conventionally 0.05.
	Significance float64
}

// NewAnalyzer returns an analyzer with the default 3-sigma outlier cut and
// p < 0.05 significance level.
func NewAnalyzer() *Analyzer {
	return &Analyzer{SigmaThreshold: 3.0, Significance: 0.05}
}

// RemoveOutliers discards values more than SigmaThreshold standard
// deviations from the series mean. Bounds are inclusive: a value exactly at
// mean +/- k*sigma survives.
func (a *Analyzer) RemoveOutliers(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	mean := stat.Mean(series, nil)
	sigma := math.Sqrt(stat.PopVariance(series, nil))
	lower := mean - a.SigmaThreshold*sigma
	upper := mean + a.SigmaThreshold*sigma

	clean := make([]float64, 0, len(series))
	for _, v := range series {
		if v >= lower && v <= upper {
			clean = append(clean, v)
		}
	}
	return clean
}

// CompareBands compares two series of power values for one band. Series B is
// the first t-test operand, so the statistic's sign reflects B relative to A.
func (a *Analyzer) CompareBands(bandName string, dataA, dataB []float64) Result {
	cleanA := a.RemoveOutliers(dataA)
	cleanB := a.RemoveOutliers(dataB)

	if len(cleanA) < 2 || len(cleanB) < 2 {
		return Result{Valid: false, Err: "insufficient data"}
	}

	t, p := welchTTest(cleanB, cleanA)

	meanA := stat.Mean(cleanA, nil)
	meanB := stat.Mean(cleanB, nil)
	pctChange := 0.0
	if meanA != 0 {
		pctChange = (meanB - meanA) / meanA * 100
	}

	significant := p < a.Significance
	conclusion := "No significant difference."
	if significant {
		direction := "LOWER"
		if meanB > meanA {
			direction = "HIGHER"
		}
		conclusion = fmt.Sprintf("Recording B has significantly %s %s.", direction, bandName)
	}

	return Result{
		Valid:         true,
		BandName:      bandName,
		MeanA:         meanA,
		MeanB:         meanB,
		PercentChange: pctChange,
		TStatistic:    t,
		PValue:        p,
		Significant:   significant,
		Conclusion:    conclusion,
	}
}

// welchTTest runs a two-sample t-test that does not assume equal variances,
// returning the statistic and the two-sided p-value via the Student's-t
// distribution with Welch-Satterthwaite degrees of freedom.
func welchTTest(x, y []float64) (t, p float64) {
	nx := float64(len(x))
	ny := float64(len(y))
	mx := stat.Mean(x, nil)
	my := stat.Mean(y, nil)
	vx := stat.Variance(x, nil)
	vy := stat.Variance(y, nil)

	sx := vx / nx
	sy := vy / ny
	se := math.Sqrt(sx + sy)
	if se == 0 {
		// Both samples are constant; no evidence either way.
		return 0, 1
	}

	t = (mx - my) / se
	df := (sx + sy) * (sx + sy) / (sx*sx/(nx-1) + sy*sy/(ny-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.CDF(-math.Abs(t))
	return t, p
}

package dsp

import (
	"fmt"
	"math"
	"math/cmplx"
)

// FilterKind identifies the frequency response shape of a designed filter.
type FilterKind string

const (
	// Lowpass passes frequencies below a single cutoff.
	Lowpass FilterKind = "lowpass"
	// Bandpass passes frequencies between a low and a high cutoff.
	Bandpass FilterKind = "bandpass"
)

// InvalidDesignError reports filter parameters that cannot produce a stable
// design. It is fatal to pipeline construction and must not be retried.
type InvalidDesignError struct {
	Kind    FilterKind
	Message string
}

func (e *InvalidDesignError) Error() string {
	return fmt.Sprintf("invalid %s design: %s", e.Kind, e.Message)
}

// Coefficients holds a digital IIR transfer function in ascending powers of
// z^-1. A is normalized so A[0] == 1.
type Coefficients struct {
	B []float64
	A []float64
}

// DesignLowpass computes Butterworth lowpass coefficients for the given
// cutoff (Hz), sample rate (Hz) and order.
func DesignLowpass(cutoff, sampleRate float64, order int) (*Coefficients, error) {
	if err := validateDesign(Lowpass, cutoff, cutoff, sampleRate, order); err != nil {
		return nil, err
	}

	// Pre-warp the cutoff so the bilinear transform lands it exactly.
	warped := 2 * sampleRate * math.Tan(math.Pi*cutoff/sampleRate)

	poles := prototypePoles(order)
	gain := 1.0
	for i := range poles {
		poles[i] *= complex(warped, 0)
	}
	gain *= math.Pow(warped, float64(order))

	zeros := []complex128{} // all-pole analog lowpass
	return bilinear(Lowpass, zeros, poles, gain, sampleRate)
}

// DesignBandpass computes Butterworth bandpass coefficients for the given
// band edges (Hz), sample rate (Hz) and order. The resulting transfer
// function has polynomial degree 2*order.
func DesignBandpass(low, high, sampleRate float64, order int) (*Coefficients, error) {
	if err := validateDesign(Bandpass, low, high, sampleRate, order); err != nil {
		return nil, err
	}

	w1 := 2 * sampleRate * math.Tan(math.Pi*low/sampleRate)
	w2 := 2 * sampleRate * math.Tan(math.Pi*high/sampleRate)
	bw := w2 - w1
	w0 := math.Sqrt(w1 * w2)

	proto := prototypePoles(order)

	// Lowpass-to-bandpass transform: every prototype pole splits in two and
	// the numerator gains a zero at the origin per original pole.
	poles := make([]complex128, 0, 2*order)
	for _, p := range proto {
		scaled := p * complex(bw/2, 0)
		d := cmplx.Sqrt(scaled*scaled - complex(w0*w0, 0))
		poles = append(poles, scaled+d, scaled-d)
	}
	zeros := make([]complex128, order) // zeros at s = 0
	gain := math.Pow(bw, float64(order))

	return bilinear(Bandpass, zeros, poles, gain, sampleRate)
}

func validateDesign(kind FilterKind, low, high, sampleRate float64, order int) error {
	nyquist := sampleRate / 2
	switch {
	case sampleRate <= 0:
		return &InvalidDesignError{Kind: kind, Message: "sample rate must be positive"}
	case order < 1:
		return &InvalidDesignError{Kind: kind, Message: fmt.Sprintf("order must be >= 1, got %d", order)}
	case low <= 0:
		return &InvalidDesignError{Kind: kind, Message: fmt.Sprintf("cutoff %.3f Hz must be positive", low)}
	case high >= nyquist:
		return &InvalidDesignError{Kind: kind,
			Message: fmt.Sprintf("cutoff %.3f Hz must be below the Nyquist frequency %.3f Hz", high, nyquist)}
	case kind == Bandpass && low >= high:
		return &InvalidDesignError{Kind: kind,
			Message: fmt.Sprintf("low cutoff %.3f Hz must be below high cutoff %.3f Hz", low, high)}
	}
	return nil
}

// prototypePoles returns the left-half-plane poles of the normalized analog
// Butterworth prototype (|p| = 1).
func prototypePoles(order int) []complex128 {
	poles := make([]complex128, order)
	for k := 0; k < order; k++ {
		theta := math.Pi * float64(2*k+order+1) / float64(2*order)
		poles[k] = cmplx.Exp(complex(0, theta))
	}
	return poles
}

// bilinear maps an analog zero/pole/gain design onto the z-plane and expands
// it into polynomial transfer-function coefficients.
func bilinear(kind FilterKind, zeros, poles []complex128, gain, sampleRate float64) (*Coefficients, error) {
	fs2 := complex(2*sampleRate, 0)

	zZeros := make([]complex128, 0, len(poles))
	zPoles := make([]complex128, len(poles))

	num := complex(1, 0)
	den := complex(1, 0)
	for _, z := range zeros {
		zZeros = append(zZeros, (fs2+z)/(fs2-z))
		num *= fs2 - z
	}
	for i, p := range poles {
		zPoles[i] = (fs2 + p) / (fs2 - p)
		den *= fs2 - p
	}
	// Degree deficit maps to zeros at z = -1.
	for len(zZeros) < len(zPoles) {
		zZeros = append(zZeros, complex(-1, 0))
	}

	k := gain * real(num/den)

	b := polynomial(zZeros)
	a := polynomial(zPoles)
	for i := range b {
		b[i] *= k
	}

	if !isStable(a) {
		return nil, &InvalidDesignError{Kind: kind, Message: "design produced an unstable filter"}
	}
	return &Coefficients{B: b, A: a}, nil
}

// polynomial expands a set of roots into real monic polynomial coefficients,
// highest power first. Complex roots arrive in conjugate pairs so the
// imaginary residue is numerical noise.
func polynomial(roots []complex128) []float64 {
	coeffs := make([]complex128, 1, len(roots)+1)
	coeffs[0] = 1
	for _, r := range roots {
		coeffs = append(coeffs, 0)
		for i := len(coeffs) - 1; i >= 1; i-- {
			coeffs[i] -= r * coeffs[i-1]
		}
	}
	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = real(c)
	}
	return out
}

// isStable checks that all poles of the denominator sit inside the unit
// circle, by evaluating the reflection-coefficient (Schur-Cohn) recursion.
func isStable(a []float64) bool {
	n := len(a) - 1
	cur := make([]float64, len(a))
	copy(cur, a)
	for m := n; m >= 1; m-- {
		k := cur[m] / cur[0]
		if math.Abs(k) >= 1 {
			return false
		}
		next := make([]float64, m)
		scale := 1 - k*k
		for i := 0; i < m; i++ {
			next[i] = (cur[i] - k*cur[m-i]) / scale
		}
		cur = next
	}
	return true
}

// Package xcorr estimates render-to-capture lags offline by FFT
// cross-correlation. It serves as a reference for the adaptive estimators.
package xcorr

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const minFFTSize = 16

var (
	// ErrEmptyInput is returned when an input signal is empty.
	ErrEmptyInput = errors.New("xcorr: empty input")
	// ErrInvalidMaxLag is returned for a negative search range.
	ErrInvalidMaxLag = errors.New("xcorr: max lag must be >= 0")
)

// Correlate computes the full cross-correlation of a and b,
// r[k] = sum_n a[n+lag]*b[n] with lag = k - (len(b)-1).
// The result has length len(a) + len(b) - 1.
func Correlate(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}

	n, m := len(a), len(b)
	size := nextPowerOf2(max(n+m-1, minFFTSize))

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("xcorr: failed to create FFT plan: %w", err)
	}

	aTime := make([]complex128, size)
	bTime := make([]complex128, size)
	for i, v := range a {
		aTime[i] = complex(v, 0)
	}
	for i, v := range b {
		bTime[i] = complex(v, 0)
	}

	aFreq := make([]complex128, size)
	bFreq := make([]complex128, size)
	if err := plan.Forward(aFreq, aTime); err != nil {
		return nil, fmt.Errorf("xcorr: forward FFT failed: %w", err)
	}
	if err := plan.Forward(bFreq, bTime); err != nil {
		return nil, fmt.Errorf("xcorr: forward FFT failed: %w", err)
	}

	for i, c := range bFreq {
		aFreq[i] *= complex(real(c), -imag(c))
	}

	// aTime is free now and receives the circular correlation.
	if err := plan.Inverse(aTime, aFreq); err != nil {
		return nil, fmt.Errorf("xcorr: inverse FFT failed: %w", err)
	}

	out := make([]float64, n+m-1)
	for i := 0; i < n; i++ {
		out[m-1+i] = real(aTime[i])
	}
	for i := 0; i < m-1; i++ {
		out[i] = real(aTime[size-m+1+i])
	}
	return out, nil
}

// Lag returns the delay in [0, maxLag] by which capture trails render, chosen
// as the largest correlation magnitude. maxLag is clipped to len(capture)-1.
func Lag(render, capture []float64, maxLag int) (int, error) {
	if maxLag < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidMaxLag, maxLag)
	}

	r, err := Correlate(capture, render)
	if err != nil {
		return 0, err
	}

	maxLag = min(maxLag, len(capture)-1)
	zero := len(render) - 1
	best, bestMag := 0, -1.0
	for lag := 0; lag <= maxLag; lag++ {
		if mag := math.Abs(r[zero+lag]); mag > bestMag {
			best, bestMag = lag, mag
		}
	}
	return best, nil
}

// Coherence returns the normalised correlation of render and capture at lag,
// in [-1, 1]. It is 0 when the overlap is empty or silent.
func Coherence(render, capture []float64, lag int) float64 {
	if lag < 0 || lag >= len(capture) {
		return 0
	}
	n := min(len(render), len(capture)-lag)
	if n == 0 {
		return 0
	}

	x, y := render[:n], capture[lag:lag+n]
	den := math.Sqrt(vecmath.DotProduct(x, x) * vecmath.DotProduct(y, y))
	if den == 0 {
		return 0
	}
	return vecmath.DotProduct(x, y) / den
}

func nextPowerOf2(n int) int {
	return 1 << bits.Len(uint(n-1))
}

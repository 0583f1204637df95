package xcorr

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-aec/internal/testutil"
)

// direct computes the same correlation by definition.
func direct(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for k := range out {
		lag := k - (len(b) - 1)
		for n := range b {
			if i := n + lag; i >= 0 && i < len(a) {
				out[k] += a[i] * b[n]
			}
		}
	}
	return out
}

func TestCorrelateMatchesDirect(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
	}{
		{"short", []float64{1, 2, 3}, []float64{0, 1, 0.5}},
		{"unequal", testutil.DeterministicNoise(1, 1, 37), testutil.DeterministicNoise(2, 1, 11)},
		{"single", []float64{2}, []float64{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Correlate(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Correlate: %v", err)
			}
			testutil.RequireSliceNearlyEqual(t, got, direct(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCorrelateEmpty(t *testing.T) {
	if _, err := Correlate(nil, []float64{1}); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("error = %v, want ErrEmptyInput", err)
	}
	if _, err := Correlate([]float64{1}, nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("error = %v, want ErrEmptyInput", err)
	}
}

func TestLagFindsDelay(t *testing.T) {
	x := testutil.DeterministicNoise(3, 1000, 4000)
	for _, delay := range []int{0, 1, 57, 800} {
		y := testutil.DelayedEcho(x, delay, -0.5)
		lag, err := Lag(x, y, 1000)
		if err != nil {
			t.Fatalf("Lag: %v", err)
		}
		if lag != delay {
			t.Fatalf("Lag = %d, want %d", lag, delay)
		}
		if c := Coherence(x, y, lag); math.Abs(c+1) > 1e-9 {
			t.Fatalf("Coherence at %d = %g, want -1", lag, c)
		}
	}
}

func TestLagRespectsRange(t *testing.T) {
	x := testutil.DeterministicNoise(4, 1000, 2000)
	y := testutil.DelayedEcho(x, 300, 0.5)
	lag, err := Lag(x, y, 100)
	if err != nil {
		t.Fatalf("Lag: %v", err)
	}
	if lag > 100 {
		t.Fatalf("Lag = %d outside range", lag)
	}

	if _, err := Lag(x, y, -1); !errors.Is(err, ErrInvalidMaxLag) {
		t.Fatalf("error = %v, want ErrInvalidMaxLag", err)
	}
}

func TestCoherenceEdgeCases(t *testing.T) {
	x := []float64{1, 2, 3}
	if c := Coherence(x, x, 0); math.Abs(c-1) > 1e-12 {
		t.Fatalf("self coherence = %g", c)
	}
	if c := Coherence(x, x, 3); c != 0 {
		t.Fatalf("coherence beyond capture = %g", c)
	}
	if c := Coherence(x, make([]float64, 3), 0); c != 0 {
		t.Fatalf("coherence with silence = %g", c)
	}
}

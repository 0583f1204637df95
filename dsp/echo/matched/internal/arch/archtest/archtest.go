// Package archtest builds kernel fixtures shared by the backend tests.
package archtest

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/registry"
	"github.com/cwbudde/algo-aec/internal/testutil"
)

// Case is one kernel invocation fixture.
type Case struct {
	Name      string
	RingSize  int
	FilterLen int
	BlockLen  int
	XStart    int
	Track     bool
	Threshold float64
}

// Cases covers plain, wrapped and tracked windows.
var Cases = []Case{
	{Name: "contiguous", RingSize: 256, FilterLen: 32, BlockLen: 16, XStart: 40},
	{Name: "wrap", RingSize: 256, FilterLen: 32, BlockLen: 16, XStart: 250},
	{Name: "wrap-tracked", RingSize: 256, FilterLen: 32, BlockLen: 16, XStart: 250, Track: true},
	{Name: "start-at-zero", RingSize: 128, FilterLen: 64, BlockLen: 16, XStart: 0, Track: true},
	{Name: "negative-start", RingSize: 128, FilterLen: 64, BlockLen: 16, XStart: -5, Track: true},
	{Name: "odd-length", RingSize: 100, FilterLen: 36, BlockLen: 8, XStart: 97, Track: true},
	{Name: "below-threshold", RingSize: 256, FilterLen: 32, BlockLen: 16, XStart: 12, Track: true, Threshold: math.Inf(1)},
}

// Params builds deterministic parameters for c. Calls with the same case
// return equal, independently owned slices.
func (c Case) Params() *registry.Params {
	p := &registry.Params{
		XStart:         c.XStart,
		X2SumThreshold: c.Threshold,
		Smoothing:      0.7,
		X:              testutil.DeterministicNoise(11, 1000, c.RingSize),
		Y:              testutil.DeterministicNoise(23, 500, c.BlockLen),
		H:              testutil.DeterministicNoise(37, 0.05, c.FilterLen),
		Scratch:        make([]float64, c.FilterLen),
	}
	if c.Track {
		p.AccumulatedError = make([]float64, c.FilterLen/registry.AccumulatedErrorSubSampleRate)
	}
	return p
}

// RequireEquivalent runs got and want on identical inputs and fails t unless
// the taps, error sum, update flag and error trace agree within tol relative
// error.
func RequireEquivalent(t *testing.T, got, want registry.CoreFn, tol float64) {
	t.Helper()
	for _, c := range Cases {
		pg, pw := c.Params(), c.Params()
		rg, rw := got(pg), want(pw)

		if rg.Updated != rw.Updated {
			t.Fatalf("%s: updated = %v, want %v", c.Name, rg.Updated, rw.Updated)
		}
		if e := testutil.RelativeError(rg.ErrorSum, rw.ErrorSum, 1e-12); e > tol {
			t.Fatalf("%s: error sum %g, want %g (rel %g)", c.Name, rg.ErrorSum, rw.ErrorSum, e)
		}
		testutil.RequireRelativeClose(t, pg.H, pw.H, tol)
		if c.Track {
			testutil.RequireRelativeClose(t, pg.AccumulatedError, pw.AccumulatedError, tol)
		}
	}
}

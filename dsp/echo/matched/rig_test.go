package matched

import (
	"testing"

	"github.com/cwbudde/algo-aec/dsp/echo/render"
	"github.com/cwbudde/algo-aec/internal/testutil"
)

const (
	testRingSize  = 4096
	testAmplitude = 1000
)

// rig feeds a deterministic render signal and its echo through a filter one
// sub-block at a time.
type rig struct {
	m       *MatchedFilter
	buf     *render.Buffer
	render  []float64
	capture []float64
	sub     int
	block   int
}

func newRig(tb testing.TB, m *MatchedFilter, taps []float64, blocks int) *rig {
	tb.Helper()
	buf, err := render.New(testRingSize)
	if err != nil {
		tb.Fatal(err)
	}
	sub := m.Config().SubBlockSize
	x := testutil.DeterministicNoise(1234, testAmplitude, blocks*sub)
	return &rig{
		m:       m,
		buf:     buf,
		render:  x,
		capture: testutil.Echo(x, taps),
		sub:     sub,
	}
}

// setEcho replaces the echo path from the current block onwards.
func (r *rig) setEcho(taps []float64) {
	y := testutil.Echo(r.render, taps)
	copy(r.capture[r.block*r.sub:], y[r.block*r.sub:])
}

func (r *rig) step() {
	lo, hi := r.block*r.sub, (r.block+1)*r.sub
	r.buf.Insert(r.render[lo:hi])
	r.m.Update(r.buf, r.capture[lo:hi], false)
	r.block++
}

func (r *rig) run(n int) {
	for i := 0; i < n; i++ {
		r.step()
	}
}

func delayTaps(delay int, gain float64) []float64 {
	taps := make([]float64, delay+1)
	taps[delay] = gain
	return taps
}

func mustNew(tb testing.TB, cfg Config, opts ...Option) *MatchedFilter {
	tb.Helper()
	m, err := New(cfg, opts...)
	if err != nil {
		tb.Fatalf("New: %v", err)
	}
	return m
}

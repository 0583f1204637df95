// Package decimate reduces the sample rate of render and capture signals
// before delay estimation. The signal is band-limited by a Butterworth
// low-pass cascade, optionally stripped of DC and rumble by a high-pass
// section, and then every factor-th sample is kept.
package decimate

import (
	"errors"
	"fmt"
)

const (
	lowPassOrder  = 6
	highPassOrder = 2

	// lowPassEdge is the low-pass cutoff relative to the output Nyquist rate.
	lowPassEdge = 0.8

	// DefaultHighPassHz is the default DC-blocker cutoff.
	DefaultHighPassHz = 60.0
)

var (
	// ErrInvalidFactor is returned for an unsupported down-sampling factor.
	ErrInvalidFactor = errors.New("decimate: factor must be 2, 4 or 8")
	// ErrInvalidSampleRate is returned for a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("decimate: sample rate must be > 0")
	// ErrInvalidHighPass is returned for a high-pass cutoff outside (0, output Nyquist).
	ErrInvalidHighPass = errors.New("decimate: invalid high-pass cutoff")
)

type config struct {
	highPass   bool
	highPassHz float64
}

// Option configures a Decimator.
type Option func(*config)

// WithHighPass sets the DC-blocker cutoff in Hz at the input rate.
func WithHighPass(hz float64) Option {
	return func(cfg *config) {
		cfg.highPass = true
		cfg.highPassHz = hz
	}
}

// WithoutHighPass disables the DC blocker.
func WithoutHighPass() Option {
	return func(cfg *config) { cfg.highPass = false }
}

// Decimator is a streaming anti-aliased down-sampler. It keeps filter state
// across calls and is not safe for concurrent use.
type Decimator struct {
	factor     int
	sampleRate float64
	sections   []section
	scratch    []float64
}

// New returns a decimator by factor for input at sampleRate Hz.
func New(factor int, sampleRate float64, opts ...Option) (*Decimator, error) {
	if factor != 2 && factor != 4 && factor != 8 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFactor, factor)
	}
	if !(sampleRate > 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidSampleRate, sampleRate)
	}

	cfg := config{highPass: true, highPassHz: DefaultHighPassHz}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	outNyquist := sampleRate / float64(2*factor)
	if cfg.highPass && !(cfg.highPassHz > 0 && cfg.highPassHz < outNyquist) {
		return nil, fmt.Errorf("%w: %g Hz", ErrInvalidHighPass, cfg.highPassHz)
	}

	d := &Decimator{
		factor:     factor,
		sampleRate: sampleRate,
		sections:   butterworth(lowpass, lowPassEdge*outNyquist, lowPassOrder, sampleRate),
	}
	if cfg.highPass {
		d.sections = append(d.sections, butterworth(highpass, cfg.highPassHz, highPassOrder, sampleRate)...)
	}
	return d, nil
}

// Factor returns the down-sampling factor.
func (d *Decimator) Factor() int {
	return d.factor
}

// OutputRate returns the output sample rate in Hz.
func (d *Decimator) OutputRate() float64 {
	return d.sampleRate / float64(d.factor)
}

// Decimate filters in and writes every factor-th sample to out. in is left
// untouched; len(in) must equal Factor()*len(out).
func (d *Decimator) Decimate(in, out []float64) {
	if len(in) != d.factor*len(out) {
		panic("decimate: input length must be factor times output length")
	}

	if cap(d.scratch) < len(in) {
		d.scratch = make([]float64, len(in))
	}
	x := d.scratch[:len(in)]
	copy(x, in)
	for i := range d.sections {
		d.sections[i].process(x)
	}

	for j, k := 0, 0; j < len(out); j, k = j+1, k+d.factor {
		out[j] = x[k]
	}
}

// Reset clears the filter state.
func (d *Decimator) Reset() {
	for i := range d.sections {
		d.sections[i].reset()
	}
}

// Package synth generates the deterministic render and echo signals used by
// the lagscan tool and the package tests.
package synth

import (
	"math"
	"math/rand/v2"
)

// Sine generates a sine wave of freqHz at sampleRate.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// NoiseSource produces an endless white noise stream with a triangular
// amplitude distribution in (-amplitude, amplitude). Streams with the same
// seed are identical.
type NoiseSource struct {
	rng       *rand.Rand
	amplitude float64
}

// NewNoiseSource returns a stream seeded with seed.
func NewNoiseSource(seed int64, amplitude float64) *NoiseSource {
	return &NoiseSource{
		rng:       rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15)),
		amplitude: amplitude,
	}
}

// Fill overwrites dst with the next len(dst) samples.
func (n *NoiseSource) Fill(dst []float64) {
	for i := range dst {
		dst[i] = n.amplitude * (n.rng.Float64() - n.rng.Float64())
	}
}

// Noise returns length samples of the stream seeded with seed.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	NewNoiseSource(seed, amplitude).Fill(out)
	return out
}

// Impulse generates a unit impulse at pos. Out-of-range positions give
// silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Echo returns render filtered through the echo path taps, where taps[k] is
// the coupling at a delay of k samples. Samples before the start of render
// are treated as zero.
func Echo(render, taps []float64) []float64 {
	out := make([]float64, len(render))
	for n := range out {
		var s float64
		for k, g := range taps {
			if g == 0 || n-k < 0 {
				continue
			}
			s += g * render[n-k]
		}
		out[n] = s
	}
	return out
}

// DelayedEcho returns render delayed by delay samples and scaled by gain.
func DelayedEcho(render []float64, delay int, gain float64) []float64 {
	taps := make([]float64, delay+1)
	taps[delay] = gain
	return Echo(render, taps)
}

// Package testutil provides deterministic signals and tolerance helpers shared
// by the echo-estimation tests.
package testutil

import "github.com/cwbudde/algo-aec/internal/synth"

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	return synth.Sine(freqHz, sampleRate, amplitude, length)
}

// DeterministicNoise generates white noise in (-amplitude, amplitude) from a
// fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	return synth.Noise(seed, amplitude, length)
}

// NewNoiseSource returns an endless noise stream seeded with seed.
func NewNoiseSource(seed int64, amplitude float64) *synth.NoiseSource {
	return synth.NewNoiseSource(seed, amplitude)
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	return synth.Impulse(length, pos)
}

// Echo returns render filtered through the echo path taps.
func Echo(render, taps []float64) []float64 {
	return synth.Echo(render, taps)
}

// DelayedEcho returns render delayed by delay samples and scaled by gain.
func DelayedEcho(render []float64, delay int, gain float64) []float64 {
	return synth.DelayedEcho(render, delay, gain)
}

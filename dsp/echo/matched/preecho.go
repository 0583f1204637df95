package matched

import "github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/registry"

const (
	// smoothing applied to increases of the accumulated error.
	preEchoIncreaseSmoothing       = 0.01
	preEchoIncreaseSmoothingWarmup = 0.015

	// Per-sample capture energy the anchor must exceed for the modes
	// without warm-up.
	preEchoMinSampleEnergy = 30 * 30
)

// preEchoState is the warm-up state of the pre-echo detector.
type preEchoState int

const (
	preEchoWarmup preEchoState = iota
	preEchoActive
)

// preEchoTracker counts the qualifying error-trace updates of the current
// winning filter.
type preEchoTracker struct {
	cfg     PreEchoConfig
	state   preEchoState
	updates int
	filter  int
}

func newPreEchoTracker(cfg PreEchoConfig) preEchoTracker {
	t := preEchoTracker{cfg: cfg}
	t.restart(-1)
	return t
}

// restart begins a new warm-up for filter.
func (t *preEchoTracker) restart(filter int) {
	t.filter = filter
	t.updates = 0
	t.state = preEchoWarmup
	if t.cfg.Mode != PreEchoClosestBelowWarmup || t.cfg.WarmupUpdates == 0 {
		t.state = preEchoActive
	}
}

// record counts one qualifying update.
func (t *preEchoTracker) record() {
	t.updates++
	if t.updates >= t.cfg.WarmupUpdates {
		t.state = preEchoActive
	}
}

func (t *preEchoTracker) ready() bool {
	return t.state == preEchoActive
}

// qualifies reports whether a sub-block with the given anchor energy carries
// enough signal to update the error trace.
func (t *preEchoTracker) qualifies(anchor float64, subBlockSize int) bool {
	if t.cfg.Mode == PreEchoClosestBelowWarmup {
		return anchor > 1
	}
	return anchor > preEchoMinSampleEnergy*float64(subBlockSize)
}

func (t *preEchoTracker) increaseSmoothing() float64 {
	if t.cfg.Mode == PreEchoClosestBelowWarmup {
		return preEchoIncreaseSmoothingWarmup
	}
	return preEchoIncreaseSmoothing
}

// updateAccumulatedError folds the kernel's per-call error trace, normalised
// by the capture energy, into the long-running trace. Decreases are taken at
// once and increases are smoothed.
func updateAccumulatedError(instantaneous, accumulated []float64, oneOverAnchor, smoothIncreases float64) {
	for k := range accumulated {
		e := instantaneous[k] * oneOverAnchor
		if e < accumulated[k] {
			accumulated[k] = e
		} else {
			accumulated[k] += smoothIncreases * (e - accumulated[k])
		}
	}
}

// computePreEchoLag reads the pre-echo lag off the accumulated error of the
// winning filter. lag is the global lag and shift the winner's offset.
func computePreEchoLag(cfg PreEchoConfig, accumulated []float64, lag, shift int) int {
	const rate = registry.AccumulatedErrorSubSampleRate

	local := lag - shift
	preEcho := local
	maxBin := min(local/rate, len(accumulated))

	switch cfg.Mode {
	case PreEchoSlope:
		for k := 1; k < maxBin; k++ {
			if accumulated[k] < cfg.Threshold && accumulated[k] < 0.5*accumulated[k-1] {
				preEcho = (k+1)*rate - 1
				break
			}
		}
	case PreEchoFirstBelow:
		for k := 0; k < maxBin; k++ {
			if accumulated[k] < cfg.Threshold {
				preEcho = (k+1)*rate - 1
				break
			}
		}
	case PreEchoClosestBelow, PreEchoClosestBelowWarmup:
		for k := maxBin - 1; k >= 0; k-- {
			if accumulated[k] > cfg.Threshold {
				break
			}
			preEcho = (k+1)*rate - 1
		}
	}

	if local-preEcho < cfg.MinGap {
		preEcho = local
	}
	return preEcho + shift
}

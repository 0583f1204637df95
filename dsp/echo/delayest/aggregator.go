package delayest

// aggregator keeps a histogram of the most recent lags and reports the
// modal lag once it has been seen often enough.
type aggregator struct {
	histogram []int
	history   []int
	next      int

	initialThreshold   int
	convergedThreshold int
	significant        bool
}

func newAggregator(maxLag, window, initial, converged int) aggregator {
	a := aggregator{
		histogram:          make([]int, maxLag+1),
		history:            make([]int, window),
		initialThreshold:   initial,
		convergedThreshold: converged,
	}
	a.reset(true)
	return a
}

// reset clears the histogram. The converged state survives unless
// resetConfidence is set.
func (a *aggregator) reset(resetConfidence bool) {
	clear(a.histogram)
	for i := range a.history {
		a.history[i] = -1
	}
	a.next = 0
	if resetConfidence {
		a.significant = false
	}
}

// add records lag and returns the modal lag when its count exceeds the
// active threshold.
func (a *aggregator) add(lag int) (int, bool) {
	if lag < 0 || lag >= len(a.histogram) {
		return 0, false
	}

	if old := a.history[a.next]; old >= 0 {
		a.histogram[old]--
	}
	a.history[a.next] = lag
	a.histogram[lag]++
	a.next = (a.next + 1) % len(a.history)

	return a.mode()
}

// mode returns the most frequent lag, the lowest one on ties.
func (a *aggregator) mode() (int, bool) {
	candidate, count := 0, 0
	for lag, n := range a.histogram {
		if n > count {
			candidate, count = lag, n
		}
	}

	a.significant = a.significant || count > a.convergedThreshold
	threshold := a.initialThreshold
	if a.significant {
		threshold = a.convergedThreshold
	}
	return candidate, count > threshold
}

// converged reports whether a lag has ever passed the converged threshold.
func (a *aggregator) converged() bool {
	return a.significant
}

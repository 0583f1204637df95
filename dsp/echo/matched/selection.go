package matched

// selectionState is the debounce state of the winning-filter choice.
type selectionState int

const (
	// selectIdle: no filter has been accepted yet.
	selectIdle selectionState = iota
	// selectPending: a first candidate is accumulating wins.
	selectPending
	// selectLocked: a filter is accepted as the lag source.
	selectLocked
	// selectSwitching: a challenger is accumulating wins against the locked filter.
	selectSwitching
)

func (s selectionState) String() string {
	switch s {
	case selectIdle:
		return "idle"
	case selectPending:
		return "pending"
	case selectLocked:
		return "locked"
	case selectSwitching:
		return "switching"
	default:
		return "unknown"
	}
}

// observation is the outcome of one ranking pass.
type observation struct {
	// candidate is the best reliable filter of the call, or -1.
	candidate      int
	candidateRatio float64
	// lockedRatio is the error ratio of the locked filter on the same call,
	// valid only when lockedReliable is set.
	lockedRatio    float64
	lockedReliable bool
}

// selector debounces the winning filter. A new filter is accepted after it
// wins hysteresis consecutive contested calls, or at once when it beats the
// locked filter's error ratio by the switch margin. Calls without any
// candidate leave the state untouched.
type selector struct {
	hysteresis int
	margin     float64

	state     selectionState
	locked    int
	challenge int
	count     int
}

func newSelector(hysteresis int, margin float64) selector {
	s := selector{hysteresis: hysteresis, margin: margin}
	s.reset()
	return s
}

func (s *selector) reset() {
	s.state = selectIdle
	s.locked = -1
	s.challenge = -1
	s.count = 0
}

// winner returns the accepted filter, or -1.
func (s *selector) winner() int {
	if s.state == selectLocked || s.state == selectSwitching {
		return s.locked
	}
	return -1
}

// observe advances the state machine and reports whether the call's
// candidate is the accepted filter afterwards.
func (s *selector) observe(o observation) bool {
	c := o.candidate
	if c < 0 {
		return false
	}

	switch s.state {
	case selectIdle:
		s.challenge, s.count = c, 1
		s.state = selectPending
	case selectPending:
		if c == s.challenge {
			s.count++
		} else {
			s.challenge, s.count = c, 1
		}
	case selectLocked:
		if c == s.locked {
			return true
		}
		if o.lockedReliable && o.candidateRatio < (1-s.margin)*o.lockedRatio {
			s.locked = c
			return true
		}
		s.challenge, s.count = c, 1
		s.state = selectSwitching
	case selectSwitching:
		switch {
		case c == s.locked:
			s.state = selectLocked
			s.challenge, s.count = -1, 0
			return true
		case o.lockedReliable && o.candidateRatio < (1-s.margin)*o.lockedRatio:
			s.accept(c)
			return true
		case c == s.challenge:
			s.count++
		default:
			s.challenge, s.count = c, 1
		}
	}

	if s.count >= s.hysteresis {
		s.accept(s.challenge)
		return true
	}
	return false
}

func (s *selector) accept(c int) {
	s.locked = c
	s.state = selectLocked
	s.challenge, s.count = -1, 0
}

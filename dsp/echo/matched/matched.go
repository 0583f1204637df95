package matched

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/registry"
)

// reliability bounds on the peak position within a filter.
const (
	minPeakIndex    = 2
	peakTailReserve = 10
)

// RenderHistory is the downsampled render signal as seen by the matched
// filter: a ring stored newest-first, so increasing indices walk backward in
// time, and the index aligned with the most recent capture sample.
type RenderHistory interface {
	Samples() []float64
	ReadIndex() int
}

// LagEstimate is the delay, in downsampled samples, that best aligns render
// and capture. PreEchoLag is at most Lag and equals it when no pre-echo is
// detected.
type LagEstimate struct {
	Lag        int
	PreEchoLag int
}

// FilterStats describes one candidate filter after the latest Update.
type FilterStats struct {
	// Offset is the lag of the filter's first tap.
	Offset int
	// Peak is the index of the filter's largest tap.
	Peak     int
	ErrorSum float64
	Updated  bool
	Reliable bool
}

// Lag returns Offset + Peak.
func (s FilterStats) Lag() int {
	return s.Offset + s.Peak
}

// MatchedFilter estimates the render-to-capture lag with a bank of adaptive
// filters at staggered offsets. It is not safe for concurrent use.
type MatchedFilter struct {
	cfg           Config
	kernel        *registry.OpEntry
	filterLen     int
	intraLagShift int
	x2Threshold   float64

	filters          [][]float64
	accumulatedError [][]float64
	instantaneous    []float64
	scratch          []float64
	stats            []FilterStats
	params           registry.Params
	errorSumAnchor   float64

	selection selector
	preEcho   preEchoTracker

	estimate    LagEstimate
	hasEstimate bool
	refreshed   bool

	dumper     Dumper
	logger     *slog.Logger
	tapNames   []string
	errorNames []string
	anchor     [1]float64
}

// New returns a MatchedFilter for cfg. All state is allocated here; Update
// does not allocate.
func New(cfg Config, opts ...Option) (*MatchedFilter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{optimization: OptimizationAuto, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	kernel, err := lookupKernel(o.optimization)
	if err != nil {
		return nil, err
	}

	n := cfg.FilterLen()
	m := &MatchedFilter{
		cfg:              cfg,
		kernel:           kernel,
		filterLen:        n,
		intraLagShift:    cfg.AlignmentShiftSubBlocks * cfg.SubBlockSize,
		x2Threshold:      float64(n) * cfg.ExcitationLimit * cfg.ExcitationLimit,
		filters:          make([][]float64, cfg.NumFilters),
		accumulatedError: make([][]float64, cfg.NumFilters),
		instantaneous:    make([]float64, n/registry.AccumulatedErrorSubSampleRate),
		scratch:          make([]float64, n),
		stats:            make([]FilterStats, cfg.NumFilters),
		selection:        newSelector(cfg.SelectionHysteresis, cfg.SwitchMargin),
		preEcho:          newPreEchoTracker(cfg.PreEcho),
		dumper:           o.dumper,
		logger:           o.logger,
		tapNames:         make([]string, cfg.NumFilters),
		errorNames:       make([]string, cfg.NumFilters),
	}
	for k := range m.filters {
		m.filters[k] = make([]float64, n)
		m.accumulatedError[k] = make([]float64, n/registry.AccumulatedErrorSubSampleRate)
		m.stats[k].Offset = k * m.intraLagShift
		m.tapNames[k] = fmt.Sprintf("aec3_correlator_%d_h", k)
		m.errorNames[k] = fmt.Sprintf("aec3_ave_accumulated_error_%d", k)
	}
	m.params.Scratch = m.scratch
	m.resetAccumulatedError()

	return m, nil
}

// Config returns the construction parameters.
func (m *MatchedFilter) Config() Config {
	return m.cfg
}

// KernelName returns the name of the selected kernel variant.
func (m *MatchedFilter) KernelName() string {
	return m.kernel.Name
}

// NumFilters returns the number of candidate filters.
func (m *MatchedFilter) NumFilters() int {
	return len(m.filters)
}

// Taps returns the taps of filter k. The slice must be treated as read-only
// and is overwritten by the next Update.
func (m *MatchedFilter) Taps(k int) []float64 {
	return m.filters[k]
}

// Stats returns the state of filter k after the latest Update.
func (m *MatchedFilter) Stats(k int) FilterStats {
	return m.stats[k]
}

// ErrorSumAnchor returns the capture energy of the latest sub-block.
func (m *MatchedFilter) ErrorSumAnchor() float64 {
	return m.errorSumAnchor
}

// Update adapts all filters against one capture sub-block and refreshes the
// lag estimate. capture must hold exactly SubBlockSize samples, oldest first,
// the last one aligned with render.ReadIndex(). The render ring must hold at
// least MaxFilterLag samples. useSlowSmoothing selects the slow step size.
func (m *MatchedFilter) Update(render RenderHistory, capture []float64, useSlowSmoothing bool) {
	if len(capture) != m.cfg.SubBlockSize {
		panic("matched: capture length must equal the sub-block size")
	}
	x := render.Samples()
	if len(x) < m.MaxFilterLag() {
		panic("matched: render history shorter than MaxFilterLag")
	}

	smoothing := m.cfg.SmoothingFast
	if useSlowSmoothing {
		smoothing = m.cfg.SmoothingSlow
	}

	var anchor float64
	for _, v := range capture {
		anchor += v * v
	}
	m.errorSumAnchor = anchor

	m.refreshed = false

	xStart := render.ReadIndex() + m.cfg.SubBlockSize - 1
	tracked := -1
	if m.cfg.DetectPreEcho {
		tracked = m.selection.winner()
	}

	p := &m.params
	p.X2SumThreshold = m.x2Threshold
	p.Smoothing = smoothing
	p.X = x
	p.Y = capture

	for k, h := range m.filters {
		st := &m.stats[k]
		p.XStart = xStart + st.Offset
		p.H = h
		p.AccumulatedError = nil
		if k == tracked {
			p.AccumulatedError = m.instantaneous
		}

		res := m.kernel.Core(p)

		st.ErrorSum = res.ErrorSum
		st.Updated = res.Updated
		st.Peak = MaxSquarePeakIndex(h)
		st.Reliable = res.Updated &&
			st.Peak > minPeakIndex && st.Peak < m.filterLen-peakTailReserve &&
			h[st.Peak] != 0 &&
			res.ErrorSum < m.cfg.MatchingFilterThreshold*anchor
	}
	p.H, p.X, p.Y, p.AccumulatedError = nil, nil, nil, nil

	obs := pickCandidate(m.stats, m.selection.winner(), anchor)
	if m.selection.observe(obs) {
		m.accept(obs.candidate, tracked, anchor)
	}

	if m.dumper != nil {
		m.dump()
	}
}

// pickCandidate returns the reliable filter with the lowest error sum.
// Overlapping neighbours that agree on the lag resolve to the lower filter so
// the pre-echo search sees the longer history.
func pickCandidate(stats []FilterStats, locked int, anchor float64) observation {
	obs := observation{candidate: -1}
	bestError := math.Inf(1)
	for k, st := range stats {
		if !st.Reliable {
			continue
		}
		if k == locked {
			obs.lockedReliable = true
			obs.lockedRatio = st.ErrorSum / anchor
		}
		if st.ErrorSum < bestError {
			bestError = st.ErrorSum
			obs.candidate = k
		}
	}

	c := obs.candidate
	if c > 0 && stats[c-1].Reliable && stats[c-1].Lag() == stats[c].Lag() {
		c--
	}
	if c >= 0 {
		obs.candidate = c
		obs.candidateRatio = stats[c].ErrorSum / anchor
	}
	return obs
}

// accept publishes the lag of winner and runs pre-echo detection on it.
// tracked is the filter whose error trace was computed during this call.
func (m *MatchedFilter) accept(winner, tracked int, anchor float64) {
	st := m.stats[winner]
	lag := st.Lag()
	m.estimate = LagEstimate{Lag: lag, PreEchoLag: lag}
	m.hasEstimate = true
	m.refreshed = true

	if !m.cfg.DetectPreEcho {
		return
	}
	if winner != m.preEcho.filter {
		m.preEcho.restart(winner)
	}
	if winner == tracked && m.preEcho.qualifies(anchor, m.cfg.SubBlockSize) {
		updateAccumulatedError(m.instantaneous, m.accumulatedError[winner], 1/anchor, m.preEcho.increaseSmoothing())
		m.preEcho.record()
	}
	if m.preEcho.ready() {
		m.estimate.PreEchoLag = computePreEchoLag(m.cfg.PreEcho, m.accumulatedError[winner], lag, st.Offset)
	}
}

func (m *MatchedFilter) dump() {
	for k := range m.filters {
		m.dumper.DumpRaw(m.tapNames[k], m.filters[k])
		m.dumper.DumpRaw(m.errorNames[k], m.accumulatedError[k])
	}
	m.anchor[0] = m.errorSumAnchor
	m.dumper.DumpRaw("aec3_error_sum_anchor", m.anchor[:])
}

// BestLagEstimate returns the current lag estimate. ok is false until a
// filter has been accepted, and again after Reset.
func (m *MatchedFilter) BestLagEstimate() (LagEstimate, bool) {
	return m.estimate, m.hasEstimate
}

// Refreshed reports whether the latest Update produced a new estimate rather
// than keeping the previous one.
func (m *MatchedFilter) Refreshed() bool {
	return m.refreshed
}

// MaxFilterLag returns the largest lag the filter bank can represent.
func (m *MatchedFilter) MaxFilterLag() int {
	return len(m.filters)*m.intraLagShift + m.filterLen
}

// Reset clears the lag estimate and the selection state. A full reset also
// zeroes the taps and restarts pre-echo detection; otherwise the learned
// taps are kept. The accumulated error survives a partial reset only in
// PreEchoClosestBelowWarmup mode.
func (m *MatchedFilter) Reset(full bool) {
	m.estimate = LagEstimate{}
	m.hasEstimate = false
	m.refreshed = false
	m.selection.reset()
	m.errorSumAnchor = 0
	for k := range m.stats {
		m.stats[k] = FilterStats{Offset: m.stats[k].Offset}
	}

	if full {
		for _, h := range m.filters {
			clear(h)
		}
	}
	if full || m.cfg.PreEcho.Mode != PreEchoClosestBelowWarmup {
		m.resetAccumulatedError()
		m.preEcho.restart(-1)
	}
}

func (m *MatchedFilter) resetAccumulatedError() {
	for _, e := range m.accumulatedError {
		for k := range e {
			e[k] = 1
		}
	}
}

// LogFilterProperties logs the lag range covered by every filter, in
// milliseconds at sampleRateHz after subtracting shift full-band samples,
// together with its latest peak and error ratio.
func (m *MatchedFilter) LogFilterProperties(sampleRateHz, shift, downsamplingFactor int) {
	ctx := context.Background()
	if !m.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}

	msPerSample := 0.0
	if sampleRateHz > 0 {
		msPerSample = 1000 / float64(sampleRateHz)
	}
	for k, st := range m.stats {
		start := st.Offset*downsamplingFactor - shift
		end := (st.Offset+m.filterLen)*downsamplingFactor - shift
		ratio := 0.0
		if m.errorSumAnchor > 0 {
			ratio = st.ErrorSum / m.errorSumAnchor
		}
		m.logger.LogAttrs(ctx, slog.LevelDebug, "matched filter",
			slog.Int("filter", k),
			slog.Float64("start_ms", float64(start)*msPerSample),
			slog.Float64("end_ms", float64(end)*msPerSample),
			slog.Int("peak_lag", st.Lag()),
			slog.Float64("error_ratio", ratio),
			slog.Bool("updated", st.Updated),
		)
	}
}

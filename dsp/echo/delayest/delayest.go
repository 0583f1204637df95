// Package delayest estimates the echo-path delay of a full-band render and
// capture stream. Both signals are decimated, the render signal is kept in a
// history ring, and a matched-filter bank tracks the lag. Lags from
// successive blocks are aggregated in a histogram so a single outlier does
// not move the reported delay.
package delayest

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-aec/dsp/echo/decimate"
	"github.com/cwbudde/algo-aec/dsp/echo/matched"
	"github.com/cwbudde/algo-aec/dsp/echo/render"
)

var (
	// ErrInvalidBlockSize is returned when the block size does not split into
	// whole decimated sub-blocks.
	ErrInvalidBlockSize = errors.New("delayest: block size must be a multiple of factor times sub-block size")
	// ErrInvalidAggregation is returned for invalid histogram settings.
	ErrInvalidAggregation = errors.New("delayest: invalid aggregation settings")
)

// Config holds the estimator parameters.
type Config struct {
	SampleRate         float64
	BlockSize          int
	DownSamplingFactor int
	// HighPassHz is the DC-blocker cutoff; 0 disables it.
	HighPassHz float64
	// HeadroomSamples is subtracted from the filter ranges in LogProperties.
	HeadroomSamples int

	Matched matched.Config

	HistoryLength      int
	InitialThreshold   int
	ConvergedThreshold int
}

// DefaultConfig returns the standard 16 kHz setup: 64-sample blocks
// decimated by 4 into one 16-sample sub-block each.
func DefaultConfig() Config {
	return Config{
		SampleRate:         16000,
		BlockSize:          64,
		DownSamplingFactor: 4,
		HighPassHz:         decimate.DefaultHighPassHz,
		HeadroomSamples:    32,
		Matched:            matched.DefaultConfig(),
		HistoryLength:      250,
		InitialThreshold:   5,
		ConvergedThreshold: 20,
	}
}

// Estimate is an aggregated delay in full-band samples.
type Estimate struct {
	Delay        int
	PreEchoDelay int
	// Converged is set once a lag has passed the converged threshold.
	Converged bool
}

// historyView presents the render ring with the read index moved back to
// the sub-block being processed.
type historyView struct {
	ring   *render.Buffer
	offset int
}

func (v *historyView) Samples() []float64 {
	return v.ring.Samples()
}

func (v *historyView) ReadIndex() int {
	return v.ring.OffsetIndex(v.ring.ReadIndex(), v.offset)
}

// Estimator runs the delay-estimation pipeline. It is not safe for
// concurrent use.
type Estimator struct {
	cfg       Config
	renderDec *decimate.Decimator
	capDec    *decimate.Decimator
	ring      *render.Buffer
	view      historyView
	filter    *matched.MatchedFilter

	lags     aggregator
	preEchos aggregator

	renderDS  []float64
	captureDS []float64
}

// New builds an estimator. opts are passed to the matched filter.
func New(cfg Config, opts ...matched.Option) (*Estimator, error) {
	factor := cfg.DownSamplingFactor
	sub := cfg.Matched.SubBlockSize
	if factor <= 0 || sub <= 0 || cfg.BlockSize <= 0 || cfg.BlockSize%(factor*sub) != 0 {
		return nil, fmt.Errorf("%w: block %d, factor %d, sub-block %d", ErrInvalidBlockSize, cfg.BlockSize, factor, sub)
	}
	if cfg.HistoryLength <= 0 || cfg.InitialThreshold < 0 || cfg.ConvergedThreshold < cfg.InitialThreshold {
		return nil, fmt.Errorf("%w: history %d, thresholds %d/%d", ErrInvalidAggregation,
			cfg.HistoryLength, cfg.InitialThreshold, cfg.ConvergedThreshold)
	}

	var decOpts []decimate.Option
	if cfg.HighPassHz > 0 {
		decOpts = append(decOpts, decimate.WithHighPass(cfg.HighPassHz))
	} else {
		decOpts = append(decOpts, decimate.WithoutHighPass())
	}
	renderDec, err := decimate.New(factor, cfg.SampleRate, decOpts...)
	if err != nil {
		return nil, fmt.Errorf("delayest: render decimator: %w", err)
	}
	capDec, err := decimate.New(factor, cfg.SampleRate, decOpts...)
	if err != nil {
		return nil, fmt.Errorf("delayest: capture decimator: %w", err)
	}

	filter, err := matched.New(cfg.Matched, opts...)
	if err != nil {
		return nil, fmt.Errorf("delayest: %w", err)
	}

	ds := cfg.BlockSize / factor
	ring, err := render.New(filter.MaxFilterLag() + 2*ds)
	if err != nil {
		return nil, err
	}

	maxLag := filter.MaxFilterLag()
	e := &Estimator{
		cfg:       cfg,
		renderDec: renderDec,
		capDec:    capDec,
		ring:      ring,
		filter:    filter,
		lags:      newAggregator(maxLag, cfg.HistoryLength, cfg.InitialThreshold, cfg.ConvergedThreshold),
		preEchos:  newAggregator(maxLag, cfg.HistoryLength, cfg.InitialThreshold, cfg.ConvergedThreshold),
		renderDS:  make([]float64, ds),
		captureDS: make([]float64, ds),
	}
	e.view.ring = ring
	return e, nil
}

// Filter exposes the underlying matched filter.
func (e *Estimator) Filter() *matched.MatchedFilter {
	return e.filter
}

// AnalyzeRender decimates one render block and appends it to the history.
func (e *Estimator) AnalyzeRender(block []float64) {
	if len(block) != e.cfg.BlockSize {
		panic("delayest: render block length must equal the block size")
	}
	e.renderDec.Decimate(block, e.renderDS)
	e.ring.Insert(e.renderDS)
}

// EstimateDelay processes one capture block that is time-aligned with the
// most recent render block. ok is false until the aggregated lag is
// trustworthy.
func (e *Estimator) EstimateDelay(capture []float64) (Estimate, bool) {
	if len(capture) != e.cfg.BlockSize {
		panic("delayest: capture block length must equal the block size")
	}
	e.capDec.Decimate(capture, e.captureDS)

	sub := e.cfg.Matched.SubBlockSize
	n := len(e.captureDS) / sub

	var (
		est   Estimate
		found bool
	)
	for s := 0; s < n; s++ {
		e.view.offset = (n - 1 - s) * sub
		e.filter.Update(&e.view, e.captureDS[s*sub:(s+1)*sub], e.lags.converged())
		if !e.filter.Refreshed() {
			continue
		}

		lag, _ := e.filter.BestLagEstimate()
		delay, ok := e.lags.add(lag.Lag)
		preEcho, preOK := e.preEchos.add(lag.PreEchoLag)
		if !ok {
			continue
		}
		if !preOK || preEcho > delay {
			preEcho = delay
		}
		factor := e.cfg.DownSamplingFactor
		est = Estimate{Delay: delay * factor, PreEchoDelay: preEcho * factor, Converged: e.lags.converged()}
		found = true
	}
	return est, found
}

// Reset clears the pipeline. A full reset also forgets the learned filters
// and the delay confidence.
func (e *Estimator) Reset(full bool) {
	e.lags.reset(full)
	e.preEchos.reset(full)
	e.filter.Reset(full)
	e.renderDec.Reset()
	e.capDec.Reset()
	if full {
		e.ring.Reset()
	}
}

// MaxDelay returns the largest detectable delay in full-band samples.
func (e *Estimator) MaxDelay() int {
	return e.filter.MaxFilterLag() * e.cfg.DownSamplingFactor
}

// LogProperties logs the delay range of each matched filter.
func (e *Estimator) LogProperties() {
	e.filter.LogFilterProperties(int(e.cfg.SampleRate), e.cfg.HeadroomSamples, e.cfg.DownSamplingFactor)
}

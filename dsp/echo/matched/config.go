package matched

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrInvalidSubBlockSize is returned for a non-positive or non-multiple-of-4 sub-block size.
	ErrInvalidSubBlockSize = errors.New("matched: sub-block size must be a positive multiple of 4")
	// ErrInvalidWindowSize is returned for a filter window shorter than one sub-block.
	ErrInvalidWindowSize = errors.New("matched: window size must be > 0 sub-blocks")
	// ErrInvalidFilterCount is returned when no filters are requested.
	ErrInvalidFilterCount = errors.New("matched: number of filters must be > 0")
	// ErrInvalidAlignmentShift is returned for a non-positive filter spacing.
	ErrInvalidAlignmentShift = errors.New("matched: alignment shift must be > 0 sub-blocks")
	// ErrInvalidExcitationLimit is returned for a negative excitation limit.
	ErrInvalidExcitationLimit = errors.New("matched: excitation limit must be >= 0")
	// ErrInvalidSmoothing is returned for a step size outside (0, 1].
	ErrInvalidSmoothing = errors.New("matched: smoothing must be in (0, 1]")
	// ErrInvalidThreshold is returned for a non-positive matching threshold.
	ErrInvalidThreshold = errors.New("matched: matching-filter threshold must be > 0")
	// ErrInvalidHysteresis is returned for an invalid selection hysteresis setting.
	ErrInvalidHysteresis = errors.New("matched: invalid selection hysteresis")
	// ErrInvalidPreEcho is returned for an invalid pre-echo configuration.
	ErrInvalidPreEcho = errors.New("matched: invalid pre-echo configuration")
	// ErrUnsupportedOptimization is returned when the requested kernel is not
	// available on this CPU or build.
	ErrUnsupportedOptimization = errors.New("matched: optimization not supported")
)

// PreEchoMode selects how the pre-echo lag is read off the accumulated error.
type PreEchoMode int

const (
	// PreEchoSlope picks the first bin below the threshold that also drops
	// to less than half of the preceding bin.
	PreEchoSlope PreEchoMode = iota
	// PreEchoFirstBelow picks the first bin below the threshold.
	PreEchoFirstBelow
	// PreEchoClosestBelow walks back from the lag and picks the earliest bin
	// of the contiguous run below the threshold.
	PreEchoClosestBelow
	// PreEchoClosestBelowWarmup behaves like PreEchoClosestBelow once the
	// tracker has seen WarmupUpdates qualifying updates.
	PreEchoClosestBelowWarmup
)

func (m PreEchoMode) String() string {
	switch m {
	case PreEchoSlope:
		return "slope"
	case PreEchoFirstBelow:
		return "first-below"
	case PreEchoClosestBelow:
		return "closest-below"
	case PreEchoClosestBelowWarmup:
		return "closest-below-warmup"
	default:
		return fmt.Sprintf("PreEchoMode(%d)", int(m))
	}
}

// PreEchoConfig configures pre-echo detection.
type PreEchoConfig struct {
	// Threshold is the normalised accumulated error below which a bin counts
	// as explained.
	Threshold float64
	Mode      PreEchoMode
	// WarmupUpdates is the number of qualifying updates required before
	// PreEchoClosestBelowWarmup reports a pre-echo lag.
	WarmupUpdates int
	// MinGap is the smallest distance in samples between lag and pre-echo
	// lag that is reported; closer pre-echoes collapse onto the lag.
	MinGap int
}

// Config holds the construction parameters of a MatchedFilter.
type Config struct {
	SubBlockSize            int
	WindowSizeSubBlocks     int
	NumFilters              int
	AlignmentShiftSubBlocks int
	ExcitationLimit         float64
	SmoothingFast           float64
	SmoothingSlow           float64
	MatchingFilterThreshold float64

	DetectPreEcho bool
	PreEcho       PreEchoConfig

	// SelectionHysteresis is the number of consecutive winning calls a new
	// filter needs before it becomes the lag source.
	SelectionHysteresis int
	// SwitchMargin lets a challenger take over immediately when its error
	// ratio is below (1-SwitchMargin) times that of the current winner on
	// the same sub-block.
	SwitchMargin float64
}

// DefaultConfig returns the standard delay-estimation setup for a 16 kHz
// render signal downsampled by 4.
func DefaultConfig() Config {
	return Config{
		SubBlockSize:            16,
		WindowSizeSubBlocks:     32,
		NumFilters:              5,
		AlignmentShiftSubBlocks: 24,
		ExcitationLimit:         150,
		SmoothingFast:           0.7,
		SmoothingSlow:           0.7,
		MatchingFilterThreshold: 0.2,
		DetectPreEcho:           true,
		PreEcho: PreEchoConfig{
			Threshold:     0.5,
			Mode:          PreEchoClosestBelowWarmup,
			WarmupUpdates: 50,
		},
		SelectionHysteresis: 3,
		SwitchMargin:        0.25,
	}
}

// FilterLen returns the number of taps of each filter.
func (c Config) FilterLen() int {
	return c.SubBlockSize * c.WindowSizeSubBlocks
}

// Validate reports the first invalid parameter in c.
func (c Config) Validate() error {
	switch {
	case c.SubBlockSize <= 0 || c.SubBlockSize%4 != 0:
		return fmt.Errorf("%w: %d", ErrInvalidSubBlockSize, c.SubBlockSize)
	case c.WindowSizeSubBlocks <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidWindowSize, c.WindowSizeSubBlocks)
	case c.NumFilters <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidFilterCount, c.NumFilters)
	case c.AlignmentShiftSubBlocks <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidAlignmentShift, c.AlignmentShiftSubBlocks)
	case c.ExcitationLimit < 0:
		return fmt.Errorf("%w: %g", ErrInvalidExcitationLimit, c.ExcitationLimit)
	case !(c.SmoothingFast > 0 && c.SmoothingFast <= 1):
		return fmt.Errorf("%w: fast %g", ErrInvalidSmoothing, c.SmoothingFast)
	case !(c.SmoothingSlow > 0 && c.SmoothingSlow <= 1):
		return fmt.Errorf("%w: slow %g", ErrInvalidSmoothing, c.SmoothingSlow)
	case !(c.MatchingFilterThreshold > 0):
		return fmt.Errorf("%w: %g", ErrInvalidThreshold, c.MatchingFilterThreshold)
	case c.SelectionHysteresis < 1:
		return fmt.Errorf("%w: %d calls", ErrInvalidHysteresis, c.SelectionHysteresis)
	case !(c.SwitchMargin >= 0 && c.SwitchMargin <= 1):
		return fmt.Errorf("%w: switch margin %g", ErrInvalidHysteresis, c.SwitchMargin)
	}

	if !c.DetectPreEcho {
		return nil
	}
	p := c.PreEcho
	switch {
	case !(p.Threshold > 0):
		return fmt.Errorf("%w: threshold %g", ErrInvalidPreEcho, p.Threshold)
	case p.Mode < PreEchoSlope || p.Mode > PreEchoClosestBelowWarmup:
		return fmt.Errorf("%w: mode %d", ErrInvalidPreEcho, int(p.Mode))
	case p.WarmupUpdates < 0:
		return fmt.Errorf("%w: warm-up %d", ErrInvalidPreEcho, p.WarmupUpdates)
	case p.MinGap < 0:
		return fmt.Errorf("%w: min gap %d", ErrInvalidPreEcho, p.MinGap)
	}
	return nil
}

// Dumper receives named snapshots of internal arrays for offline analysis.
// Implementations must not retain values beyond the call.
type Dumper interface {
	DumpRaw(name string, values []float64)
}

type options struct {
	optimization Optimization
	dumper       Dumper
	logger       *slog.Logger
}

// Option configures optional collaborators of a MatchedFilter.
type Option func(*options)

// WithOptimization selects the kernel variant. Default is OptimizationAuto.
func WithOptimization(o Optimization) Option {
	return func(opts *options) { opts.optimization = o }
}

// WithDumper attaches a diagnostics dumper. It is called at the end of
// every Update.
func WithDumper(d Dumper) Option {
	return func(opts *options) { opts.dumper = d }
}

// WithLogger sets the logger used by LogFilterProperties.
// Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(opts *options) {
		if l != nil {
			opts.logger = l
		}
	}
}

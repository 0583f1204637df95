// Command lagscan runs the echo delay estimator over a render/capture pair
// and prints how the estimate evolves.
//
// Usage:
//
//	lagscan [flags]
//
// Without -render and -capture a synthetic TPDF render signal is generated
// and echoed with the given delay and gain.
//
// Examples:
//
//	lagscan -delay 480
//	lagscan -delay 2000 -gain 0.3 -blocks 800 -v
//	lagscan -render far.raw -capture near.raw -rate 16000
//	lagscan -simd none -delay 1000
package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-aec/dsp/echo/delayest"
	"github.com/cwbudde/algo-aec/dsp/echo/matched"
	"github.com/cwbudde/algo-aec/dsp/echo/xcorr"
	"github.com/cwbudde/algo-aec/internal/synth"
)

const syntheticAmplitude = 2000

var errMissingSignal = errors.New("lagscan: render and capture files must both be given")

type options struct {
	delay       int
	gain        float64
	blocks      int
	seed        int64
	renderPath  string
	capturePath string
	rate        float64
	simd        string
	verbose     bool
}

func main() {
	var o options
	fs := newFlagSet(&o)
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(o, logger); err != nil {
		logger.Error("lagscan failed", "err", err)
		os.Exit(1)
	}
}

func run(o options, logger *slog.Logger) error {
	opt, err := matched.ParseOptimization(o.simd)
	if err != nil {
		return err
	}

	cfg := delayest.DefaultConfig()
	cfg.SampleRate = o.rate
	est, err := delayest.New(cfg, matched.WithOptimization(opt), matched.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Info("estimator ready",
		"kernel", est.Filter().KernelName(),
		"max_delay", est.MaxDelay(),
		"block", cfg.BlockSize)
	est.LogProperties()

	renderSig, captureSig, err := loadSignals(o, cfg.BlockSize)
	if err != nil {
		return err
	}
	if len(renderSig) == 0 {
		return fmt.Errorf("lagscan: need at least one block of %d samples", cfg.BlockSize)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Block\tTime [ms]\tDelay\tPre-echo\tConverged\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "-----\t---------\t-----\t--------\t---------\n"); err != nil {
		return err
	}

	var (
		last  delayest.Estimate
		found bool
	)
	blocks := len(renderSig) / cfg.BlockSize
	for b := 0; b < blocks; b++ {
		lo, hi := b*cfg.BlockSize, (b+1)*cfg.BlockSize
		est.AnalyzeRender(renderSig[lo:hi])
		e, ok := est.EstimateDelay(captureSig[lo:hi])
		if !ok || (found && e == last) {
			continue
		}
		last, found = e, true
		ms := 1000 * float64(hi) / cfg.SampleRate
		if _, err := fmt.Fprintf(tw, "%d\t%.1f\t%d\t%d\t%t\n", b, ms, e.Delay, e.PreEchoDelay, e.Converged); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !found {
		fmt.Println("\nno delay estimate")
	} else {
		fmt.Printf("\nfinal delay: %d samples (%.2f ms)\n", last.Delay, 1000*float64(last.Delay)/cfg.SampleRate)
	}

	ref, err := xcorr.Lag(renderSig, captureSig, est.MaxDelay())
	if err != nil {
		return err
	}
	fmt.Printf("cross-correlation: %d samples, coherence %.3f\n", ref, xcorr.Coherence(renderSig, captureSig, ref))
	return nil
}

// loadSignals returns equally long render and capture signals truncated to
// whole blocks.
func loadSignals(o options, block int) ([]float64, []float64, error) {
	var renderSig, captureSig []float64
	switch {
	case o.renderPath == "" && o.capturePath == "":
		if o.blocks <= 0 || o.delay < 0 {
			return nil, nil, fmt.Errorf("lagscan: invalid synthetic setup (blocks %d, delay %d)", o.blocks, o.delay)
		}
		renderSig = make([]float64, o.blocks*block)
		synth.NewNoiseSource(o.seed, syntheticAmplitude).Fill(renderSig)
		captureSig = synth.DelayedEcho(renderSig, o.delay, o.gain)
	case o.renderPath == "" || o.capturePath == "":
		return nil, nil, errMissingSignal
	default:
		var err error
		if renderSig, err = readS16LE(o.renderPath); err != nil {
			return nil, nil, err
		}
		if captureSig, err = readS16LE(o.capturePath); err != nil {
			return nil, nil, err
		}
	}

	n := min(len(renderSig), len(captureSig))
	n -= n % block
	return renderSig[:n], captureSig[:n], nil
}

// readS16LE reads headerless 16-bit little-endian mono PCM.
func readS16LE(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lagscan: %w", err)
	}
	out := make([]float64, len(raw)/2)
	for i := range out {
		out[i] = float64(int16(binary.LittleEndian.Uint16(raw[2*i:])))
	}
	return out, nil
}

package main

import (
	"flag"
	"fmt"
)

func newFlagSet(o *options) *flag.FlagSet {
	fs := flag.NewFlagSet("lagscan", flag.ContinueOnError)
	fs.IntVar(&o.delay, "delay", 480, "synthetic echo delay in samples")
	fs.Float64Var(&o.gain, "gain", 0.5, "synthetic echo gain")
	fs.IntVar(&o.blocks, "blocks", 500, "number of synthetic blocks")
	fs.Int64Var(&o.seed, "seed", 1, "synthetic noise seed")
	fs.StringVar(&o.renderPath, "render", "", "render (far-end) s16le mono file")
	fs.StringVar(&o.capturePath, "capture", "", "capture (near-end) s16le mono file")
	fs.Float64Var(&o.rate, "rate", 16000, "sample rate in Hz")
	fs.StringVar(&o.simd, "simd", "auto", "kernel selection: auto, none, sse2, avx2, neon")
	fs.BoolVar(&o.verbose, "v", false, "log filter properties and debug output")
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: lagscan [flags]\n\n")
		fmt.Fprintf(out, "Estimates the echo delay between a render and a capture signal.\n")
		fmt.Fprintf(out, "Without -render/-capture a synthetic echo is generated.\n\n")
		fmt.Fprintf(out, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  lagscan -delay 480\n")
		fmt.Fprintf(out, "  lagscan -delay 2000 -gain 0.3 -blocks 800 -v\n")
		fmt.Fprintf(out, "  lagscan -render far.raw -capture near.raw\n")
	}
	return fs
}

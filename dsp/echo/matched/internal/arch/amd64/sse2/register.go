//go:build amd64 && !purego

// Package sse2 registers the SSE2 matched-filter kernel.
package sse2

import (
	"github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/blockwise"
	"github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/registry"
	vsse2 "github.com/cwbudde/algo-vecmath/arch/amd64/sse2"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// Ops are the SSE2 block primitives, two float64 lanes wide.
var Ops = blockwise.Ops{
	Dot:        vsse2.DotProduct,
	Scale:      vsse2.ScaleBlock,
	AddInPlace: vsse2.AddBlockInPlace,
	Mul:        vsse2.MulBlock,
}

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "sse2",
		SIMDLevel: cpu.SIMDSSE2,
		Priority:  10,
		Core:      blockwise.NewCore(Ops),
	})
}

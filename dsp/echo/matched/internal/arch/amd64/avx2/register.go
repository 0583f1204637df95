//go:build amd64 && !purego

// Package avx2 registers the AVX2 matched-filter kernel.
package avx2

import (
	"github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/blockwise"
	"github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/registry"
	vavx2 "github.com/cwbudde/algo-vecmath/arch/amd64/avx2"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// Ops are the AVX2 block primitives, four float64 lanes wide.
var Ops = blockwise.Ops{
	Dot:        vavx2.DotProduct,
	Scale:      vavx2.ScaleBlock,
	AddInPlace: vavx2.AddBlockInPlace,
	Mul:        vavx2.MulBlock,
}

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "avx2",
		SIMDLevel: cpu.SIMDAVX2,
		Priority:  20,
		Core:      blockwise.NewCore(Ops),
	})
}

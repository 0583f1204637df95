//go:build arm64 && !purego

// Package neon registers the NEON matched-filter kernel.
package neon

import (
	"github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/blockwise"
	"github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/registry"
	vneon "github.com/cwbudde/algo-vecmath/arch/arm64/neon"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// Ops are the NEON block primitives.
var Ops = blockwise.Ops{
	Dot:        vneon.DotProduct,
	Scale:      vneon.ScaleBlock,
	AddInPlace: vneon.AddBlockInPlace,
	Mul:        vneon.MulBlock,
}

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "neon",
		SIMDLevel: cpu.SIMDNEON,
		Priority:  15,
		Core:      blockwise.NewCore(Ops),
	})
}
